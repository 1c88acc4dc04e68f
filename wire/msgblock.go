// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/vaultchain/vaultd/util/chainhash"
)

// MsgBlock implements a bitcoin-family block message, carrying the header
// and the full transaction list. The coinbase is always Transactions[0]; on
// PoS blocks the coinstake is Transactions[1].
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// NewMsgBlock returns a new block message with the given header and no
// transactions.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *header,
		Transactions: make([]*MsgTx, 0, defaultTransactionAlloc),
	}
}

const defaultTransactionAlloc = 2048

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message by replacing
// the slice with a freshly allocated empty one.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*MsgTx, 0, defaultTransactionAlloc)
}

// BlockHash computes the hash for the block, which is simply the hash of its
// header.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// TxHashes returns the non-witness hashes of all transactions in the block,
// in block order, for building the merkle root.
func (msg *MsgBlock) TxHashes() ([]chainhash.Hash, error) {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hashes[i] = tx.TxHash()
	}
	return hashes, nil
}

// WitnessHashes returns the witness hashes of all transactions in the block,
// in block order, for building the witness merkle root. The coinbase's
// witness hash is defined as the zero hash.
func (msg *MsgBlock) WitnessHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		if i == 0 {
			hashes[i] = chainhash.Hash{}
			continue
		}
		hashes[i] = tx.WitnessHash()
	}
	return hashes
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	// Header: hashed fields, the full-node-proof presence flag and optional
	// hash, then the var-bytes signature.
	n := BaseBlockHeaderPayload + 1
	if msg.Header.FullNodeProofHash != nil {
		n += chainhash.HashSize
	}
	n += VarIntSerializeSize(uint64(len(msg.Header.Signature))) + len(msg.Header.Signature)
	n += VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

// Serialize encodes the block to w.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize decodes a block previously written by Serialize.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	msg.Transactions = make([]*MsgTx, 0, count)
	for i := uint64(0); i < count; i++ {
		tx := new(MsgTx)
		if err := tx.deserialize(r); err != nil {
			return err
		}
		msg.Transactions = append(msg.Transactions, tx)
	}

	return nil
}

// deserialize decodes a transaction encoded by serialize.
func (msg *MsgTx) deserialize(r io.Reader) error {
	var version int32
	var class byte
	if err := readElements(r, &version, &class); err != nil {
		return err
	}
	msg.Version = version
	msg.Class = TxClass(class)

	inCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		ti := new(TxIn)
		if err := readElements(r, &ti.PreviousOutPoint.Hash, &ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		sigScript, err := ReadVarBytes(r, MaxMessagePayload, "signature script")
		if err != nil {
			return err
		}
		ti.SignatureScript = sigScript
		if err := ReadElement(r, &ti.Sequence); err != nil {
			return err
		}

		witCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if witCount > 0 {
			ti.Witness = make(TxWitness, witCount)
			for j := uint64(0); j < witCount; j++ {
				item, err := ReadVarBytes(r, MaxMessagePayload, "witness item")
				if err != nil {
					return err
				}
				ti.Witness[j] = item
			}
		}
		msg.TxIn = append(msg.TxIn, ti)
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		to := new(TxOut)
		if err := ReadElement(r, &to.Value); err != nil {
			return err
		}
		pkScript, err := ReadVarBytes(r, MaxMessagePayload, "pk script")
		if err != nil {
			return err
		}
		to.PkScript = pkScript
		msg.TxOut = append(msg.TxOut, to)
	}

	if err := ReadElement(r, &msg.LockTime); err != nil {
		return err
	}

	payload, err := ReadVarBytes(r, MaxMessagePayload, "payload")
	if err != nil {
		return err
	}
	msg.Payload = payload

	return nil
}

// MaxMessagePayload is the maximum bytes a wire-encoded field belonging to a
// transaction is allowed to occupy when read back from the wire.
const MaxMessagePayload = 32 * 1024 * 1024

// BuildMerkleRoot computes the merkle root of a list of leaf hashes using
// the Bitcoin duplicate-last-node convention for odd-sized levels.
func BuildMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}
	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf bytes.Buffer
			buf.Write(level[2*i][:])
			buf.Write(level[2*i+1][:])
			next[i] = chainhash.DoubleHashH(buf.Bytes())
		}
		level = next
	}

	return level[0]
}
