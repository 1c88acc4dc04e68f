// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package collab declares the interfaces the block assembler, package
// selector, and miner driver consume from the surrounding node: chain
// state, the mempool, the UTXO set, the wallet, consensus validation, the
// privacy-scheme accumulator, wall-clock time, and shutdown signaling.
// Nothing in this package implements these interfaces; see §6 and the
// top-level Non-goals.
package collab

import (
	"time"

	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

// ChainIndex is an opaque handle to a block's position in the best chain,
// analogous to daglabs-btcd's blockdag.blockNode but defined here only by
// the accessors the assembler needs.
type ChainIndex interface {
	Height() uint64
	Hash() chainhash.Hash
	Timestamp() time.Time
	MedianTimePast() time.Time
	Bits() uint32

	// NetworkRewardReserve is the network-reward amount carried forward
	// from this index into the next block's coinbase (§4.3 step 7).
	NetworkRewardReserve() int64
}

// Chain is the collaborator that answers questions about the best chain.
type Chain interface {
	Tip() ChainIndex
	TipHeight() uint64
	TipHash() chainhash.Hash
	TipTime() time.Time
	BestHeaderTime() time.Time

	// PreviousIndex returns the best-chain index at the given height, used
	// to read the carried network-reward reserve.
	PreviousIndex(height uint64) (ChainIndex, error)

	// IsSerialConfirmed reports whether a privacy "spend" serial hash is
	// already recorded on-chain, and at what height.
	IsSerialConfirmed(serialHash chainhash.Hash) (confirmed bool, atHeight uint64)

	// IsPubcoinConfirmed reports whether a privacy "mint" pubcoin hash is
	// already recorded on-chain, and at what height.
	IsPubcoinConfirmed(pubcoinHash chainhash.Hash) (confirmed bool, atHeight uint64)

	// IsInitialBlockDownload reports whether the node is still catching up
	// to the network, gating both miner driver loops (§4.4) unless the
	// policy's genOverride is set.
	IsInitialBlockDownload() bool
}

// Network is the collaborator over peer connectivity. It exists only so
// the PoS driver's "at least one peer connected" gate (§4.4) has a home;
// P2P networking itself is out of scope (§1 Non-goals).
type Network interface {
	ConnectedPeerCount() int
}

// TxHandle is an opaque, stable reference to a pooled transaction. The
// assembler never owns the referenced storage; it only threads the handle
// back through the mempool collaborator.
type TxHandle interface {
	// Tx returns the underlying transaction.
	Tx() *wire.MsgTx

	// Size is the transaction's weight-adjusted virtual size in bytes.
	Size() int64

	// ModifiedFee is the transaction's fee after any priority-delta policy
	// adjustment, in the smallest reward unit.
	ModifiedFee() int64

	// SigOpCost is the transaction's consensus sigop cost.
	SigOpCost() int64

	// SizeWithAncestors, ModFeesWithAncestors, and SigOpCostWithAncestors
	// are the ancestor-aggregated values feeding the feerate-with-ancestors
	// ordering (§3, §4.2).
	SizeWithAncestors() int64
	ModFeesWithAncestors() int64
	SigOpCostWithAncestors() int64

	// AncestorCount is the number of in-mempool ancestors of this handle,
	// used as the dependency-safe linearization key when committing a
	// package (§4.2 step 7).
	AncestorCount() int64
}

// AncestorLimits bounds the ancestor-set computation the selector requests
// per candidate (§4.2 step 5 uses unbounded limits; the type still exists
// so a future caller can tighten it).
type AncestorLimits struct {
	MaxCount    int64
	MaxSize     int64
	MaxSigOps   int64
}

// Mempool is the collaborator over the candidate transaction pool.
type Mempool interface {
	// TryLock attempts to acquire the mempool's read lock for the
	// duration of one createTemplate call without blocking, reporting
	// false if the pool is currently held (e.g. by a concurrent reorg or
	// tx-accept). §4.3 step 3's mempool guard calls this before touching
	// the pool at all; a false return becomes ErrMempoolBusy.
	TryLock() bool

	// Unlock releases a lock acquired by a successful TryLock.
	Unlock()

	// ByAncestorFeerate returns all handles ordered by descending
	// feerate-with-ancestors, the raw byAncestorScore stream of §4.2.
	ByAncestorFeerate() []TxHandle

	// Descendants enumerates the in-mempool descendants of handle.
	Descendants(handle TxHandle) []TxHandle

	// AncestorSet computes the full set of in-mempool ancestors of handle
	// (plus handle itself), honoring limits.
	AncestorSet(handle TxHandle, limits AncestorLimits) ([]TxHandle, error)

	// EvictRecursive removes handle and everything depending on it from
	// the pool, e.g. after a privacy duplicate is detected (§4.3 step 9).
	EvictRecursive(handle TxHandle) error
}

// UTXOView answers whether a transaction's declared inputs are all
// currently spendable.
type UTXOView interface {
	HasAllInputs(tx *wire.MsgTx) bool
}

// ReservedScript is the lifecycle handle for a payout script reserved from
// the wallet's keypool for the duration of one mining attempt.
type ReservedScript interface {
	Script() []byte

	// KeepScript marks the reserved script as consumed, so the wallet does
	// not reuse it for a later attempt (§4.4 PoW driver, on-accept).
	KeepScript()
}

// Wallet is the collaborator that produces coinstakes, signs blocks, and
// manages the staking-eligible keypool.
type Wallet interface {
	CreateCoinStake(prevIndex ChainIndex, bits uint32) (coinstake *wire.MsgTx, newTime time.Time, err error)
	MintableCoins() bool
	IsStakingEnabled() bool
	IsLocked() bool
	IsUnlockedForStakingOnly() bool

	// GetZerocoinKey returns the private key bound to a privacy spend's
	// serial number, used to sign a PoS block (§4.3 step 17).
	GetZerocoinKey(serialHash chainhash.Hash) (privateKey []byte, err error)

	Sign(blockHash chainhash.Hash, privateKey []byte) (signature []byte, err error)

	ReservePayoutScript() (ReservedScript, error)
}

// Consensus is the collaborator over block validation rules.
type Consensus interface {
	ComputeBlockVersion(prevIndex ChainIndex) int32
	GetNextWorkRequired(prevIndex ChainIndex, isPoS bool) uint32
	CheckPoW(hash chainhash.Hash, bits uint32) bool

	// TestBlockValidity runs consensus checks that do not require the
	// block to be connected to the chain (§4.3 step 18).
	TestBlockValidity(block *wire.MsgBlock, prevIndex ChainIndex, isPoS bool) error

	ProcessNewBlock(block *wire.MsgBlock) (accepted bool, err error)
}

// AccumulatorCheckpoints is the privacy-scheme accumulator checkpoint map,
// keyed by an accumulator-instance identifier.
type AccumulatorCheckpoints map[uint32]chainhash.Hash

// Accumulator is the collaborator over the privacy-scheme accumulator.
type Accumulator interface {
	// CalculateCheckpoint recomputes the checkpoint map in place for the
	// given height (§4.3 step 14).
	CalculateCheckpoint(height uint64, checkpoints AccumulatorCheckpoints) error

	GetCheckpoints(all bool) AccumulatorCheckpoints
}

// TimeSource is the collaborator over wall-clock and adjusted network time.
type TimeSource interface {
	AdjustedNetworkTime() time.Time
	WallClockSeconds() int64
	WallClockMicros() int64
	Sleep(d time.Duration)
	RandInt(n int) int
}

// Shutdown is the cooperative-cancellation collaborator polled by both
// driver loops.
type Shutdown interface {
	IsShutdownRequested() bool
}
