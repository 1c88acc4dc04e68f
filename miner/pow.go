// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"time"

	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/mining"
)

const (
	powIBDSleep            = 60 * time.Second
	powInnerLoopIterations = 0x10000
)

// PoWDriver runs the proof-of-work flavor of minerRun (§4.4): build a
// template, rewrite its coinbase to encode this thread's extra-nonce base,
// search the nonce space, submit on a hit, repeat. Multiple PoWDrivers may
// run concurrently against the same Assembler; pass them the same
// *extraNonceCounter so each thread reserves a distinct base per tip
// (§5 "Scheduling model").
type PoWDriver struct {
	Assembler *mining.Assembler
	Chain     collab.Chain
	Consensus collab.Consensus
	Time      collab.TimeSource
	Policy    *mining.Policy

	counter *extraNonceCounter
}

// NewPoWDriver constructs a PoWDriver sharing counter with every other
// thread mining the same tip.
func NewPoWDriver(a *mining.Assembler, chain collab.Chain, consensus collab.Consensus, ts collab.TimeSource, policy *mining.Policy, counter *extraNonceCounter) *PoWDriver {
	return &PoWDriver{
		Assembler: a,
		Chain:     chain,
		Consensus: consensus,
		Time:      ts,
		Policy:    policy,
		counter:   counter,
	}
}

// Run drives the loop until cancel fires. reserveScript is called once per
// outer iteration to obtain a payout script for the next attempt; on
// acceptance its ReservedScript is marked consumed so the wallet does not
// reuse it for a later block.
func (d *PoWDriver) Run(cancel *CancelToken, reserveScript func() (collab.ReservedScript, error)) {
	for {
		if cancel.Cancelled() {
			return
		}

		if d.Chain.IsInitialBlockDownload() && !d.Policy.GenOverride {
			d.Time.Sleep(powIBDSleep)
			continue
		}

		reserved, err := reserveScript()
		if err != nil {
			log.Debugf("pow: could not reserve payout script: %+v", err)
			d.Time.Sleep(time.Second)
			continue
		}

		tip := d.Chain.TipHash()
		extraNonce := d.counter.reserve(tip)

		t, err := d.Assembler.CreateTemplate(reserved.Script(), false, false, false)
		if err != nil {
			log.Debugf("pow: template build failed: %+v", err)
			continue
		}

		if err := mining.RewriteCoinbaseScriptSig(t, extraNonce); err != nil {
			log.Errorf("pow: could not rewrite coinbase scriptsig: %+v", err)
			continue
		}

		if !d.solve(t, cancel) {
			// Inner loop exhausted without a hit; abandon this template
			// and rebuild against whatever the mempool looks like now.
			continue
		}
		if cancel.Cancelled() {
			return
		}

		accepted, err := d.Consensus.ProcessNewBlock(t.Block())
		if err != nil {
			log.Warnf("pow: block %s rejected: %+v", t.Header.BlockHash(), err)
			continue
		}
		if accepted {
			reserved.KeepScript()
			log.Infof("pow: found block %s at height %d", t.Header.BlockHash(), t.Height)
		}
	}
}

// solve runs the inner nonce-search loop for up to powInnerLoopIterations,
// polling cancellation every iteration, and reports whether a winning nonce
// was found.
func (d *PoWDriver) solve(t *mining.Template, cancel *CancelToken) bool {
	for i := 0; i < powInnerLoopIterations; i++ {
		if cancel.Cancelled() {
			return false
		}

		t.Header.Nonce++
		d.counter.addHashesTried(1)

		if d.Consensus.CheckPoW(t.Header.BlockHash(), t.Header.Bits) {
			return true
		}
	}
	return false
}
