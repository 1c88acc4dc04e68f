// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

// Template houses a block that has yet to be solved or signed, along with
// the per-transaction fee and sigop-cost bookkeeping the miner driver and
// test harnesses need (§3 "Template").
type Template struct {
	// Header is the block header under construction.
	Header wire.BlockHeader

	// Transactions holds the ordered tx list; index 0 is always the
	// coinbase, index 1 the coinstake when isPoS.
	Transactions []*wire.MsgTx

	// Fees holds each transaction's fee in the same order as
	// Transactions; Fees[0] is the negative sum of all other fees, as
	// the teacher's BlockTemplate.Fees models it.
	Fees []int64

	// SigOpCosts holds each transaction's sigop cost in the same order as
	// Transactions.
	SigOpCosts []int64

	// Height is the height this template would occupy if accepted.
	Height uint64

	// IsPoS records which reward-split branch of §4.3 step 11 produced
	// this template's coinbase/coinstake.
	IsPoS bool

	// AccumulatorCheckpoints is the privacy-scheme accumulator checkpoint
	// map bound into the header via AuxDataHash (§4.3 step 14, step 16).
	AccumulatorCheckpoints collab.AccumulatorCheckpoints

	// NetworkRewardReserve is the reserve amount carried into the next
	// block's coinbase after this one (§4.3 step 7).
	NetworkRewardReserve int64
}

// Block assembles the final wire.MsgBlock for submission.
func (t *Template) Block() *wire.MsgBlock {
	return &wire.MsgBlock{
		Header:       t.Header,
		Transactions: t.Transactions,
	}
}

// recomputeMerkleRoots recomputes both the base and witness merkle roots
// from the current transaction list and installs them into the header.
// Called after the selector commits packages and again after any coinbase
// scriptsig rewrite in the PoW driver (§4.3 step 13, §4.4 extra-nonce).
func (t *Template) recomputeMerkleRoots() {
	hashes := make([]chainhash.Hash, len(t.Transactions))
	for i, tx := range t.Transactions {
		h := tx.TxHash()
		hashes[i] = h
	}
	t.Header.HashMerkleRoot = wire.BuildMerkleRoot(hashes)

	witHashes := make([]chainhash.Hash, len(t.Transactions))
	for i, tx := range t.Transactions {
		if i == 0 {
			continue
		}
		witHashes[i] = tx.WitnessHash()
	}
	t.Header.HashWitnessMerkleRoot = wire.BuildMerkleRoot(witHashes)
}
