// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/wire"
)

// resourceAccounting tracks the running totals of a block under
// construction and enforces the per-package resource limits (§4.1).
type resourceAccounting struct {
	policy *Policy

	blockWeight uint64
	sigOpCost   int64
	numTx       int
	fees        int64

	inclusionSet map[collab.TxHandle]struct{}
}

func newResourceAccounting(policy *Policy) *resourceAccounting {
	return &resourceAccounting{
		policy:       policy,
		blockWeight:  chainparams.CoinbaseWeightReservation,
		sigOpCost:    chainparams.CoinbaseSigOpReservation,
		inclusionSet: make(map[collab.TxHandle]struct{}),
	}
}

// testPackage reports whether a package of the given size and sigop cost
// still fits under the block's resource limits. Uses strict '<' so
// headroom is preserved for the coinbase (§4.1).
func (r *resourceAccounting) testPackage(pkgSize int64, pkgSigOps int64) bool {
	if r.blockWeight+uint64(chainparams.WitnessScaleFactor)*uint64(pkgSize) >= r.policy.BlockMaxWeight {
		return false
	}
	if r.sigOpCost+pkgSigOps >= chainparams.MaxBlockSigOpCost {
		return false
	}
	return true
}

// testFinality reports whether every tx in pkg is final at height/cutoff,
// and — when witness data is disabled — that none of them carries it.
func testFinality(pkg []collab.TxHandle, height uint64, locktimeCutoff time.Time, wantWitness bool) bool {
	for _, handle := range pkg {
		tx := handle.Tx()
		if !isFinalTx(tx, height, locktimeCutoff) {
			return false
		}
		if !wantWitness && tx.HasWitness() {
			return false
		}
	}
	return true
}

// isFinalTx mirrors the standard lock-time finality rule: a zero LockTime,
// or every input sequence number at the max, is always final; otherwise
// LockTime must already have passed, interpreted as a height below
// lockTimeThreshold and as a unix timestamp at or above it.
func isFinalTx(tx *wire.MsgTx, height uint64, cutoff time.Time) bool {
	if tx.LockTime == 0 {
		return true
	}

	const lockTimeThreshold = 500000000
	var lockTimePasses bool
	if tx.LockTime < lockTimeThreshold {
		lockTimePasses = uint64(tx.LockTime) < height
	} else {
		lockTimePasses = tx.LockTime < uint32(cutoff.Unix())
	}
	if lockTimePasses {
		return true
	}

	for _, txIn := range tx.TxIn {
		if txIn.Sequence != wire.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}

// add commits entry's tx into the block, updating every running total and
// inserting the handle into the inclusion set (§4.1).
func (r *resourceAccounting) add(t *Template, handle collab.TxHandle, fee int64) {
	tx := handle.Tx()
	t.Transactions = append(t.Transactions, tx)
	t.Fees = append(t.Fees, fee)
	t.SigOpCosts = append(t.SigOpCosts, handle.SigOpCost())

	r.blockWeight += uint64(chainparams.WitnessScaleFactor) * uint64(handle.Size())
	r.sigOpCost += handle.SigOpCost()
	r.numTx++
	r.fees += fee
	r.inclusionSet[handle] = struct{}{}
}

func (r *resourceAccounting) included(handle collab.TxHandle) bool {
	_, ok := r.inclusionSet[handle]
	return ok
}
