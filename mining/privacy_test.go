// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"
	"time"

	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

// fakeChainIndex is a minimal collab.ChainIndex stand-in with every
// accessor backed by a plain field.
type fakeChainIndex struct {
	height               uint64
	hash                 chainhash.Hash
	timestamp            time.Time
	medianTimePast        time.Time
	bits                 uint32
	networkRewardReserve int64
}

func (i *fakeChainIndex) Height() uint64                 { return i.height }
func (i *fakeChainIndex) Hash() chainhash.Hash           { return i.hash }
func (i *fakeChainIndex) Timestamp() time.Time           { return i.timestamp }
func (i *fakeChainIndex) MedianTimePast() time.Time      { return i.medianTimePast }
func (i *fakeChainIndex) Bits() uint32                   { return i.bits }
func (i *fakeChainIndex) NetworkRewardReserve() int64    { return i.networkRewardReserve }

var _ collab.ChainIndex = (*fakeChainIndex)(nil)

// fakeChain is a collab.Chain stand-in whose tip/previous indices are
// plain fields, defaulting to a zero-value tip when unset so tests that
// only care about the privacy screening paths don't need to set one up.
type fakeChain struct {
	tip       *fakeChainIndex
	previous  map[uint64]*fakeChainIndex
	ibd       bool

	confirmedSerials  map[chainhash.Hash]uint64
	confirmedPubcoins map[chainhash.Hash]uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		tip:               &fakeChainIndex{},
		previous:          make(map[uint64]*fakeChainIndex),
		confirmedSerials:  make(map[chainhash.Hash]uint64),
		confirmedPubcoins: make(map[chainhash.Hash]uint64),
	}
}

func (c *fakeChain) Tip() collab.ChainIndex   { return c.tip }
func (c *fakeChain) TipHeight() uint64        { return c.tip.Height() }
func (c *fakeChain) TipHash() chainhash.Hash  { return c.tip.Hash() }
func (c *fakeChain) TipTime() time.Time       { return c.tip.Timestamp() }
func (c *fakeChain) BestHeaderTime() time.Time { return c.tip.Timestamp() }

func (c *fakeChain) PreviousIndex(height uint64) (collab.ChainIndex, error) {
	idx, ok := c.previous[height]
	if !ok {
		return nil, errNoSuchIndex
	}
	return idx, nil
}

func (c *fakeChain) IsInitialBlockDownload() bool { return c.ibd }

func (c *fakeChain) IsSerialConfirmed(serial chainhash.Hash) (bool, uint64) {
	at, ok := c.confirmedSerials[serial]
	return ok, at
}

func (c *fakeChain) IsPubcoinConfirmed(pubcoin chainhash.Hash) (bool, uint64) {
	at, ok := c.confirmedPubcoins[pubcoin]
	return ok, at
}

var _ collab.Chain = (*fakeChain)(nil)

var errNoSuchIndex = chainIndexNotFoundError{}

type chainIndexNotFoundError struct{}

func (chainIndexNotFoundError) Error() string { return "no such chain index" }

func privacyTx(class wire.TxClass, tag string) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.Class = class
	tx.Payload = []byte(tag)
	return tx
}

func extractorFor(hashes map[*wire.MsgTx][]chainhash.Hash) func(*wire.MsgTx) ([]chainhash.Hash, error) {
	return func(tx *wire.MsgTx) ([]chainhash.Hash, error) {
		return hashes[tx], nil
	}
}

func TestScreenPrivacyTransactionsDetectsInBatchDuplicateSerial(t *testing.T) {
	serial := chainhash.DoubleHashH([]byte("serial-1"))
	spendA := privacyTx(wire.TxClassZerocoinSpend, "a")
	spendB := privacyTx(wire.TxClassZerocoinSpend, "b")

	extract := extractorFor(map[*wire.MsgTx][]chainhash.Hash{
		spendA: {serial},
		spendB: {serial},
	})

	dup, err := screenPrivacyTransactions([]*wire.MsgTx{spendA, spendB}, newFakeChain(), 100, extract, extract)
	if err != nil {
		t.Fatalf("screenPrivacyTransactions: %v", err)
	}
	if _, ok := dup[spendA]; ok {
		t.Fatal("the first tx to claim a serial should not itself be flagged as a duplicate")
	}
	if _, ok := dup[spendB]; !ok {
		t.Fatal("the second tx claiming the same serial should be flagged as a duplicate")
	}
}

func TestScreenPrivacyTransactionsDetectsChainConfirmedSerial(t *testing.T) {
	serial := chainhash.DoubleHashH([]byte("already-spent"))
	spend := privacyTx(wire.TxClassZerocoinSpend, "spend")

	extract := extractorFor(map[*wire.MsgTx][]chainhash.Hash{spend: {serial}})

	chain := newFakeChain()
	chain.confirmedSerials[serial] = 50

	dup, err := screenPrivacyTransactions([]*wire.MsgTx{spend}, chain, 100, extract, extract)
	if err != nil {
		t.Fatalf("screenPrivacyTransactions: %v", err)
	}
	if _, ok := dup[spend]; !ok {
		t.Fatal("a serial already confirmed on-chain below the candidate height should flag the tx as a duplicate")
	}
}

func TestScreenPrivacyTransactionsIgnoresDistinctPubcoins(t *testing.T) {
	mintA := privacyTx(wire.TxClassZerocoinMint, "mint-a")
	mintB := privacyTx(wire.TxClassZerocoinMint, "mint-b")

	extract := extractorFor(map[*wire.MsgTx][]chainhash.Hash{
		mintA: {chainhash.DoubleHashH([]byte("pubcoin-a"))},
		mintB: {chainhash.DoubleHashH([]byte("pubcoin-b"))},
	})

	dup, err := screenPrivacyTransactions([]*wire.MsgTx{mintA, mintB}, newFakeChain(), 100, extract, extract)
	if err != nil {
		t.Fatalf("screenPrivacyTransactions: %v", err)
	}
	if len(dup) != 0 {
		t.Fatalf("expected no duplicates among distinct pubcoins, got %d", len(dup))
	}
}
