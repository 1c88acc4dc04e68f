// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/wire"
)

// fakeHandle is a minimal collab.TxHandle stand-in for exercising the
// candidate index and resource accounting in isolation from a real mempool.
type fakeHandle struct {
	tx *wire.MsgTx

	size                   int64
	modFee                 int64
	sigOpCost              int64
	sizeWithAncestors      int64
	modFeesWithAncestors   int64
	sigOpCostWithAncestors int64
	ancestorCount          int64
}

func newFakeHandle(name string, size, modFee, sigOpCost int64) *fakeHandle {
	tx := wire.NewMsgTx(1)
	tx.LockTime = 0
	tx.AddTxOut(wire.NewTxOut(modFee, []byte(name)))
	return &fakeHandle{
		tx:                     tx,
		size:                   size,
		modFee:                 modFee,
		sigOpCost:              sigOpCost,
		sizeWithAncestors:      size,
		modFeesWithAncestors:   modFee,
		sigOpCostWithAncestors: sigOpCost,
	}
}

func (h *fakeHandle) Tx() *wire.MsgTx           { return h.tx }
func (h *fakeHandle) Size() int64               { return h.size }
func (h *fakeHandle) ModifiedFee() int64        { return h.modFee }
func (h *fakeHandle) SigOpCost() int64          { return h.sigOpCost }
func (h *fakeHandle) SizeWithAncestors() int64  { return h.sizeWithAncestors }
func (h *fakeHandle) ModFeesWithAncestors() int64 {
	return h.modFeesWithAncestors
}
func (h *fakeHandle) SigOpCostWithAncestors() int64 { return h.sigOpCostWithAncestors }
func (h *fakeHandle) AncestorCount() int64          { return h.ancestorCount }

var _ collab.TxHandle = (*fakeHandle)(nil)
