// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/vaultchain/vaultd/util/chainhash"
)

// TxClass identifies the semantic kind of a transaction. Standard
// transactions spend plain UTXOs; zero-knowledge "spend" and "mint"
// transactions additionally carry privacy proof data in Payload whose
// internal layout is owned by the privacy proof collaborator (out of scope
// for this module, see §1 Non-goals).
type TxClass uint8

// Recognized transaction classes.
const (
	TxClassStandard TxClass = iota
	TxClassZerocoinSpend
	TxClassZerocoinMint
)

// MaxTxInSequenceNum is the maximum sequence number a TxIn can have.
const MaxTxInSequenceNum uint32 = 0xffffffff

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new bitcoin transaction outpoint.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
	Witness          TxWitness
}

// TxWitness defines the witness for a TxIn. A witness is to be interpreted
// as a slice of byte slices, or a stack with one or many elements.
type TxWitness [][]byte

// SerializeSize returns the number of bytes it would take to serialize the
// witness.
func (t TxWitness) SerializeSize() int {
	n := VarIntSerializeSize(uint64(len(t)))
	for _, item := range t {
		n += VarIntSerializeSize(uint64(len(item))) + len(item)
	}
	return n
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash + Outpoint Index + Sequence + serialized varint size
	// for the length of SignatureScript + SignatureScript.
	return chainhash.HashSize + 4 + 4 +
		VarIntSerializeSize(uint64(len(t.SignatureScript))) + len(t.SignatureScript)
}

// NewTxIn returns a new bitcoin transaction input with the provided previous
// outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a bitcoin transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new bitcoin transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// MsgTx implements a bitcoin-family transaction message. It is used to
// deliver transaction information in response to a getdata message or to
// relay transactions for inclusion in a block.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32

	// Class distinguishes standard transactions from zero-knowledge spend
	// and mint transactions (see §4.3 step 8 and the GLOSSARY).
	Class TxClass

	// Payload carries the privacy proof for non-standard classes. Its
	// internal layout is owned by the privacy proof library collaborator.
	Payload []byte
}

// NewMsgTx returns a new bitcoin tx message that conforms to the Message
// interface.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

const defaultTxInOutAlloc = 8

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase determines whether a transaction is a coinbase transaction: one
// input, whose previous outpoint has a zero hash and max index.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}
	prevOut := &msg.TxIn[0].PreviousOutPoint
	return prevOut.Index == MaxTxInSequenceNum && prevOut.Hash == zeroHash
}

// HasWitness returns true iff any input carries witness data.
func (msg *MsgTx) HasWitness() bool {
	for _, txIn := range msg.TxIn {
		if len(txIn.Witness) > 0 {
			return true
		}
	}
	return false
}

var zeroHash chainhash.Hash

// TxHash generates the hash for the transaction, excluding witness data
// (matching the base, non-witness transaction identifier).
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSizeStripped()))
	_ = msg.serialize(buf, false)
	return chainhash.DoubleHashH(buf.Bytes())
}

// WitnessHash generates the hash of the transaction serialized with witness
// data included, used for the witness Merkle root.
func (msg *MsgTx) WitnessHash() chainhash.Hash {
	if !msg.HasWitness() {
		return msg.TxHash()
	}
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.serialize(buf, true)
	return chainhash.DoubleHashH(buf.Bytes())
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction, including witness data.
func (msg *MsgTx) SerializeSize() int {
	return msg.serializeSize(true)
}

// SerializeSizeStripped returns the number of bytes it would take to
// serialize the transaction without any witness data.
func (msg *MsgTx) SerializeSizeStripped() int {
	return msg.serializeSize(false)
}

func (msg *MsgTx) serializeSize(withWitness bool) int {
	n := 4 + 4 // Version + LockTime
	n += 1     // Class
	n += VarIntSerializeSize(uint64(len(msg.TxIn)))
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
		if withWitness {
			n += txIn.Witness.SerializeSize()
		}
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(msg.Payload))) + len(msg.Payload)
	return n
}

// Serialize encodes the transaction to w with witness data included.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.serialize(w, true)
}

func (msg *MsgTx) serialize(w io.Writer, withWitness bool) error {
	if err := writeElements(w, msg.Version, byte(msg.Class)); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeElements(w, &ti.PreviousOutPoint.Hash, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
		if err := WriteElement(w, ti.Sequence); err != nil {
			return err
		}
		if withWitness {
			if err := WriteVarInt(w, uint64(len(ti.Witness))); err != nil {
				return err
			}
			for _, item := range ti.Witness {
				if err := WriteVarBytes(w, item); err != nil {
					return err
				}
			}
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := WriteElement(w, to.Value); err != nil {
			return err
		}
		if err := WriteVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}
	if err := WriteElement(w, msg.LockTime); err != nil {
		return err
	}
	return WriteVarBytes(w, msg.Payload)
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated, matching the teacher's "entries are
// never shared mutably across components" rule.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
		Class:    msg.Class,
		Payload:  append([]byte(nil), msg.Payload...),
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := *oldTxIn
		newTxIn.SignatureScript = append([]byte(nil), oldTxIn.SignatureScript...)
		newTxIn.Witness = append(TxWitness(nil), oldTxIn.Witness...)
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}
	for _, oldTxOut := range msg.TxOut {
		newTxOut := *oldTxOut
		newTxOut.PkScript = append([]byte(nil), oldTxOut.PkScript...)
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}
