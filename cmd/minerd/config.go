// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/mining"
)

const (
	defaultLogFilename  = "minerd.log"
	defaultDebugLevel   = "info"
	defaultThreads      = 1
)

// config is the §6 "Configuration surface" plus the ambient flags every
// long-running process in this corpus carries (log file, debug level,
// network selection). Field names track the option names spec.md §6
// names verbatim (blockmaxweight, blockmintxfee, blockversion,
// genoverride, printpriority) so operators reading the spec recognize the
// flags immediately.
type config struct {
	TestNet bool `long:"testnet" description:"Use the test network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`

	LogDir     string `long:"logdir" description:"Directory to log output to"`
	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`

	MiningAddr string `long:"miningaddr" description:"Required when --generate is set with threads > 0; only its presence is checked, since PoW payout scripts are reserved from the wallet collaborator"`
	Generate   bool   `long:"generate" description:"Generate (mine) blocks using the CPU"`
	Threads    int    `long:"threads" description:"Number of PoW mining threads to start when --generate is set; 0 stops generation"`
	Stake      bool   `long:"stake" description:"Run the proof-of-stake driver alongside (or instead of) PoW generation"`

	BlockMaxWeight uint64 `long:"blockmaxweight" description:"Maximum block weight to be used when creating a block template, clamped to [4000, MAX_BLOCK_WEIGHT/4]"`
	BlockMinTxFee  int64  `long:"blockmintxfee" description:"Minimum transaction fee in amount per kilo-weight-unit to be considered when the minimum-feerate gate is enabled"`
	MinFeerateGate bool   `long:"minfeerategate" description:"Enable the optional minimum-feerate gate on package selection (disabled by default)"`
	BlockVersion   int32  `long:"blockversion" description:"Block version to use with regtest networks only"`
	GenOverride    bool   `long:"genoverride" description:"Bypass initial-block-download and tip-age gating in the miner driver loops"`
	PrintPriority  bool   `long:"printpriority" description:"Log the feerate-with-ancestors of every accepted package"`
}

func defaultConfig() *config {
	return &config{
		LogDir:         ".",
		DebugLevel:     defaultDebugLevel,
		Threads:        defaultThreads,
		BlockMaxWeight: chainparams.DefaultBlockMaxWeight,
		BlockMinTxFee:  chainparams.DefaultBlockMinTxFee,
	}
}

// parseConfig parses command-line flags over the defaults and validates the
// resulting configuration, following the teacher's cmd/txgen/config.go
// parse-then-validate shape.
func parseConfig() (*config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.TestNet && cfg.RegTest {
		return nil, errors.New("--testnet and --regtest cannot both be specified")
	}

	if cfg.BlockVersion != 0 && !cfg.RegTest {
		return nil, errors.New("--blockversion is regtest-only")
	}

	if cfg.Generate && cfg.Threads > 0 && cfg.MiningAddr == "" {
		return nil, errors.New("--miningaddr is required when --generate is set with threads > 0")
	}

	return cfg, nil
}

// resolveParams selects the chainparams.Params this config's network flags
// name, defaulting to mainnet.
func (c *config) resolveParams() *chainparams.Params {
	switch {
	case c.RegTest:
		return &chainparams.RegressionNetParams
	case c.TestNet:
		return &chainparams.TestNetParams
	default:
		return &chainparams.MainNetParams
	}
}

// buildPolicy turns the config's policy-surface flags into a mining.Policy,
// clamping blockmaxweight as NewPolicy always does (§4.1).
func (c *config) buildPolicy() *mining.Policy {
	policy := mining.NewPolicy(c.BlockMaxWeight, c.BlockMinTxFee, c.MinFeerateGate)
	policy.BlockVersionOverride = c.BlockVersion
	policy.GenOverride = c.GenOverride
	policy.PrintPriority = c.PrintPriority
	return policy
}

func (c *config) logFilePath() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

func (c *config) String() string {
	return fmt.Sprintf("network=%s generate=%v threads=%d stake=%v blockmaxweight=%d",
		c.resolveParams().Name, c.Generate, c.Threads, c.Stake, c.BlockMaxWeight)
}
