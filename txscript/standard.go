// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript provides the minimal output-script construction and
// classification needed by the block assembler and reward-reserve scan.
// Script evaluation (the consensus VM) is out of scope; see the top-level
// Non-goals.
package txscript

import (
	"github.com/vaultchain/vaultd/util"
)

// Opcodes used to build and recognize the handful of standard output
// script templates this package cares about.
const (
	OP_0           = 0x00
	OP_DATA_20     = 0x14
	OP_PUSHDATA1   = 0x4c
	OP_PUSHDATA2   = 0x4d
	OP_PUSHDATA4   = 0x4e
	OP_RETURN      = 0x6a
	OP_DUP         = 0x76
	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88
	OP_HASH160     = 0xa9
	OP_CHECKSIG    = 0xac
)

// ScriptClass is an enumeration for the list of standard types of script
// this package recognizes.
type ScriptClass byte

// Recognized script classes.
const (
	NonStandardTy ScriptClass = iota
	PubKeyHashTy
	ScriptHashTy
	NullDataTy
)

var scriptClassToName = map[ScriptClass]string{
	NonStandardTy: "nonstandard",
	PubKeyHashTy:  "pubkeyhash",
	ScriptHashTy:  "scripthash",
	NullDataTy:    "nulldata",
}

// String implements the Stringer interface.
func (t ScriptClass) String() string {
	if name, ok := scriptClassToName[t]; ok {
		return name
	}
	return "Invalid"
}

// ScriptBuilder provides a facility for building custom scripts. It allows
// you to push opcodes, ints, and data while respecting canonical encoding.
// This mirrors the subset of the corpus's script builder that coinbase and
// reserve-address construction actually needs.
type ScriptBuilder struct {
	script []byte
	err    error
}

// NewScriptBuilder returns a new instance of a script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{script: make([]byte, 0, 50)}
}

// AddOp pushes the passed opcode to the end of the script.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.script = append(b.script, opcode)
	return b
}

// AddData pushes the passed data to the end of the script, choosing the
// minimal canonical push opcode for its length.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.script = append(b.script, canonicalDataPush(data)...)
	return b
}

// AddInt64 pushes the passed integer to the end of the script, choosing the
// minimal opcode encoding (OP_0..OP_16 for small values, a data push
// otherwise).
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if val == 0 {
		b.script = append(b.script, OP_0)
		return b
	}
	if val >= 1 && val <= 16 {
		b.script = append(b.script, byte(0x50+val))
		return b
	}
	b.script = append(b.script, canonicalDataPush(scriptNum(val))...)
	return b
}

// Script returns the currently built script.
func (b *ScriptBuilder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.script, nil
}

func canonicalDataPush(data []byte) []byte {
	n := len(data)
	var header []byte
	switch {
	case n < OP_PUSHDATA1:
		header = []byte{byte(n)}
	case n <= 0xff:
		header = []byte{OP_PUSHDATA1, byte(n)}
	case n <= 0xffff:
		header = []byte{OP_PUSHDATA2, byte(n), byte(n >> 8)}
	default:
		header = []byte{OP_PUSHDATA4, byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	}
	return append(header, data...)
}

// scriptNum encodes val as a minimally-sized little-endian script number,
// matching the Bitcoin-family CScriptNum encoding used for height pushes.
func scriptNum(val int64) []byte {
	if val == 0 {
		return nil
	}

	negative := val < 0
	absVal := val
	if negative {
		absVal = -val
	}

	var result []byte
	for absVal > 0 {
		result = append(result, byte(absVal&0xff))
		absVal >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		if negative {
			result = append(result, 0x80)
		} else {
			result = append(result, 0x00)
		}
	} else if negative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// PayToAddrScript creates a new script to pay a transaction output to the
// specified address.
func PayToAddrScript(addr util.Address) ([]byte, error) {
	switch addr := addr.(type) {
	case *util.AddressPubKeyHash:
		return NewScriptBuilder().
			AddOp(OP_DUP).
			AddOp(OP_HASH160).
			AddData(addr.ScriptAddress()).
			AddOp(OP_EQUALVERIFY).
			AddOp(OP_CHECKSIG).
			Script()

	case *util.AddressScriptHash:
		return NewScriptBuilder().
			AddOp(OP_HASH160).
			AddData(addr.ScriptAddress()).
			AddOp(OP_EQUAL).
			Script()
	}

	return nil, util.ErrUnknownAddressType
}

// GetScriptClass returns the class of the script passed, recognizing only
// the standard pay-to-pubkey-hash, pay-to-script-hash, and null-data
// templates. Anything else is NonStandardTy.
func GetScriptClass(script []byte) ScriptClass {
	switch {
	case isPubKeyHash(script):
		return PubKeyHashTy
	case isScriptHash(script):
		return ScriptHashTy
	case isNullData(script):
		return NullDataTy
	}
	return NonStandardTy
}

func isPubKeyHash(script []byte) bool {
	return len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

func isScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

func isNullData(script []byte) bool {
	return len(script) > 0 && script[0] == OP_RETURN
}

// IsStandardOutput reports whether a pkScript is one of the recognized
// standard templates. Per the reference behavior, reserve-address scanning
// treats non-standard outputs as contributing nothing (see DESIGN.md Open
// Question (c)).
func IsStandardOutput(pkScript []byte) bool {
	return GetScriptClass(pkScript) != NonStandardTy
}
