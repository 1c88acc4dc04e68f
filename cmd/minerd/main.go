// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command minerd is the composition root for the block template assembler
// and miner driver: it parses configuration, wires up logging, resolves
// network parameters, and starts the PoW/PoS driver loops from the miner
// package. It does not implement a chain, mempool, UTXO view, wallet,
// consensus engine, or P2P layer — those are the collaborators §6
// describes and the top-level Non-goals exclude; a hosting process
// supplies them by setting Collaborators (see collaborators.go) before
// this binary's run loop starts.
package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/vaultchain/vaultd/logger"
	"github.com/vaultchain/vaultd/miner"
)

var log btclog.Logger

func init() {
	l, _ := logger.Get(logger.SubsystemTags.MINR)
	log = l
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	logger.InitLogRotator(cfg.logFilePath())
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	params := cfg.resolveParams()
	policy := cfg.buildPolicy()
	log.Infof("minerd starting: %s", cfg)

	if Collaborators == nil {
		log.Warnf("no collaborator set registered (chain/mempool/UTXO view/wallet/" +
			"consensus/accumulator/time/shutdown) -- minerd has nothing to mine " +
			"against; a hosting process must set cmd/minerd.Collaborators before " +
			"this binary can run")
		return nil
	}

	deps := Collaborators(params, policy)

	var cpu *miner.CPUMiner
	if cfg.Generate {
		cpu = miner.NewCPUMiner(deps.Assembler, deps.Chain, deps.Consensus, deps.Time, policy, deps.Wallet.ReservePayoutScript)
		cpu.SetGenerate(cfg.Threads)
		log.Infof("started %d PoW mining thread(s)", cpu.NumThreads())
	}

	if cfg.Stake {
		pos := miner.NewPoSDriver(deps.Assembler, deps.Chain, deps.Network, deps.Wallet, deps.Shutdown, deps.Time, params)
		go pos.Run(miner.NewCancelToken())
		log.Infof("started proof-of-stake driver")
	}

	select {}
}
