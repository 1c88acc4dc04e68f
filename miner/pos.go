// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"sync"
	"time"

	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/mining"
	"github.com/vaultchain/vaultd/util/chainhash"
)

const (
	posGateSleep       = 5 * time.Second
	posStakeRetrySleep = 2500 * time.Millisecond

	mintableCoinsRecheckInterval      = 5 * time.Minute
	mintableCoinsRecheckIntervalWhenFalse = time.Minute
)

// PoSDriver runs the proof-of-stake flavor of §4.4's miner loop: wait out
// the sync/wallet/staking-hash gates, then ask the Assembler to build a
// signed block (coinstake creation, timestamping, and signing all happen
// inside CreateTemplate when isPoS is set). At most one PoSDriver is
// expected to run at a time, but nothing here assumes that.
type PoSDriver struct {
	Assembler *mining.Assembler
	Chain     collab.Chain
	Network   collab.Network
	Wallet    collab.Wallet
	Shutdown  collab.Shutdown
	Time      collab.TimeSource
	Params    *chainparams.Params

	mu                 sync.Mutex
	lastHashed         map[chainhash.Hash]time.Time
	mintableCoins      bool
	lastMintableCheck  time.Time
}

// NewPoSDriver constructs a PoSDriver.
func NewPoSDriver(a *mining.Assembler, chain collab.Chain, network collab.Network, wallet collab.Wallet, shutdown collab.Shutdown, ts collab.TimeSource, params *chainparams.Params) *PoSDriver {
	return &PoSDriver{
		Assembler:  a,
		Chain:      chain,
		Network:    network,
		Wallet:     wallet,
		Shutdown:   shutdown,
		Time:       ts,
		Params:     params,
		lastHashed: make(map[chainhash.Hash]time.Time),
	}
}

// Run drives the loop until cancel fires or shutdown is requested.
func (d *PoSDriver) Run(cancel *CancelToken) {
	for {
		if cancel.Cancelled() || d.Shutdown.IsShutdownRequested() {
			return
		}

		tip := d.Chain.Tip()
		tipHash := d.Chain.TipHash()
		tipTime := tip.Timestamp()
		bestHeaderTime := d.Chain.BestHeaderTime()

		if bestHeaderTime.Sub(tipTime) > time.Hour || d.Chain.IsInitialBlockDownload() {
			d.Time.Sleep(posGateSleep)
			continue
		}

		if d.Wallet == nil || !d.Wallet.IsStakingEnabled() ||
			d.Network.ConnectedPeerCount() < 1 ||
			d.Chain.TipHeight()+1 < d.Params.PoSStartHeight {
			d.Time.Sleep(posGateSleep)
			continue
		}

		if !d.waitForStakingReady(cancel) {
			continue
		}

		if d.shouldSkipForSchedule(tipHash) {
			d.Time.Sleep(time.Duration(d.Time.RandInt(10)) * time.Second)
			continue
		}

		t, err := d.Assembler.CreateTemplate(nil, false, true, false)
		d.markHashed(tipHash)
		if err != nil {
			log.Debugf("pos: template build failed: %+v", err)
			continue
		}

		accepted, err := d.Assembler.Consensus.ProcessNewBlock(t.Block())
		if err != nil {
			log.Warnf("pos: block %s rejected: %+v", t.Header.BlockHash(), err)
			continue
		}
		if accepted {
			log.Infof("pos: found block %s at height %d", t.Header.BlockHash(), t.Height)
		}
	}
}

// waitForStakingReady polls the wallet-lock/mintable-coins/clock-drift gate
// until it clears or cancellation fires, reporting which happened. The
// source this is grounded on breaks out after a single check regardless of
// outcome; that is a bug (see DESIGN.md Open Question (d)), not behavior to
// reproduce, so this polls until the conditions genuinely clear.
func (d *PoSDriver) waitForStakingReady(cancel *CancelToken) bool {
	for {
		if cancel.Cancelled() {
			return false
		}

		locked := d.Wallet.IsLocked() && !d.Wallet.IsUnlockedForStakingOnly()
		hasCoins := d.mintableCoinsCached()
		adjusted := d.Time.AdjustedNetworkTime()
		tooOld := adjusted.Before(d.Chain.Tip().Timestamp().Add(-chainparams.MaxPastBlockTime))

		if !locked && hasCoins && !tooOld {
			return true
		}

		d.Time.Sleep(posStakeRetrySleep)
	}
}

// mintableCoinsCached implements the §4.4 caching rule: re-ask the wallet
// every 5 minutes, or every 1 minute while the cached answer is false.
func (d *PoSDriver) mintableCoinsCached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	interval := mintableCoinsRecheckInterval
	if !d.mintableCoins {
		interval = mintableCoinsRecheckIntervalWhenFalse
	}

	now := d.Time.AdjustedNetworkTime()
	if d.lastMintableCheck.IsZero() || now.Sub(d.lastMintableCheck) >= interval {
		d.mintableCoins = d.Wallet.MintableCoins()
		d.lastMintableCheck = now
	}
	return d.mintableCoins
}

// shouldSkipForSchedule implements the staking-hash schedule: once a tip
// has been hashed, wait until the adjusted future-time window has moved far
// enough past the last attempt (plus jitter) before trying it again.
func (d *PoSDriver) shouldSkipForSchedule(tip chainhash.Hash) bool {
	d.mu.Lock()
	last, hashed := d.lastHashed[tip]
	d.mu.Unlock()
	if !hashed {
		return false
	}

	adjusted := d.Time.AdjustedNetworkTime()
	jitter := time.Duration(60+d.Time.RandInt(20)) * time.Second
	return adjusted.Add(chainparams.MaxFutureBlockTime).Sub(last) < jitter
}

func (d *PoSDriver) markHashed(tip chainhash.Hash) {
	d.mu.Lock()
	d.lastHashed[tip] = d.Time.AdjustedNetworkTime()
	d.mu.Unlock()
}
