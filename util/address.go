// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

var (
	// ErrChecksumMismatch describes an error where decoding failed due
	// to a bad checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownAddressType describes an error where an address can not
	// decoded as a specific address type due to the string encoding
	// beginning with an identifier byte unknown to any standard or
	// registered network.
	ErrUnknownAddressType = errors.New("unknown address type")
)

// NetID identifies the base58 version byte a network uses for a particular
// address kind. Every network registered via chainparams is assigned its own
// pair of identifiers.
type NetID byte

// Address is an interface type for any type of destination a transaction
// output may spend to. This includes pay-to-pubkey-hash (P2PKH) and
// pay-to-script-hash (P2SH); the founder, lab, budget, and network-reward
// reserve payees used by the coinbase matrix in §4.3 are ordinary addresses
// of one of these two kinds.
type Address interface {
	// String returns the string encoding of the transaction output
	// destination.
	//
	// Please note that String differs subtly from EncodeAddress: String
	// will return the value as a string without any conversion, while
	// EncodeAddress may convert destination types before encoding as a
	// payment address string.
	String() string

	// EncodeAddress returns the string encoding of the payment address
	// associated with the Address value.
	EncodeAddress() string

	// ScriptAddress returns the raw bytes of the address to be used
	// when inserting the address into a txout's script.
	ScriptAddress() []byte

	// IsForNet returns whether or not the address is associated with the
	// passed network identifiers.
	IsForNet(pubKeyHashID, scriptHashID NetID) bool
}

// DecodeAddress decodes the string encoding of an address and returns the
// Address if addr is a valid encoding for a known address type under one of
// the two supplied network identifiers.
func DecodeAddress(addr string, pubKeyHashID, scriptHashID NetID) (Address, error) {
	decoded, netID, err := base58.CheckDecode(addr)
	if err != nil {
		if err == base58.ErrChecksum {
			return nil, ErrChecksumMismatch
		}
		return nil, fmt.Errorf("decoded address is of unknown format: %s", err)
	}

	switch len(decoded) {
	case ripemd160.Size:
		switch NetID(netID) {
		case pubKeyHashID:
			return newAddressPubKeyHash(pubKeyHashID, decoded)
		case scriptHashID:
			return newAddressScriptHashFromHash(scriptHashID, decoded)
		default:
			return nil, ErrUnknownAddressType
		}
	default:
		return nil, errors.New("decoded address is of unknown size")
	}
}

// AddressPubKeyHash is an Address for a pay-to-pubkey-hash (P2PKH)
// transaction.
type AddressPubKeyHash struct {
	netID NetID
	hash  [ripemd160.Size]byte
}

// NewAddressPubKeyHashFromPublicKey returns a new AddressPubKeyHash derived
// from the given public key.
func NewAddressPubKeyHashFromPublicKey(publicKey []byte, netID NetID) (*AddressPubKeyHash, error) {
	pkHash := Hash160(publicKey)
	return newAddressPubKeyHash(netID, pkHash)
}

// NewAddressPubKeyHash returns a new AddressPubKeyHash. pkHash must be 20
// bytes.
func NewAddressPubKeyHash(pkHash []byte, netID NetID) (*AddressPubKeyHash, error) {
	return newAddressPubKeyHash(netID, pkHash)
}

func newAddressPubKeyHash(netID NetID, pkHash []byte) (*AddressPubKeyHash, error) {
	if len(pkHash) != ripemd160.Size {
		return nil, errors.New("pkHash must be 20 bytes")
	}

	addr := &AddressPubKeyHash{netID: netID}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-pubkey-hash address.
// Part of the Address interface.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], byte(a.netID))
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a pubkey hash. Part of the Address interface.
func (a *AddressPubKeyHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether or not the pay-to-pubkey-hash address was
// produced for the network identified by pubKeyHashID/scriptHashID.
func (a *AddressPubKeyHash) IsForNet(pubKeyHashID, _ NetID) bool {
	return a.netID == pubKeyHashID
}

// String returns a human-readable string for the pay-to-pubkey-hash address.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the pubkey hash.
func (a *AddressPubKeyHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}

// AddressScriptHash is an Address for a pay-to-script-hash (P2SH)
// transaction.
type AddressScriptHash struct {
	netID NetID
	hash  [ripemd160.Size]byte
}

// NewAddressScriptHash returns a new AddressScriptHash.
func NewAddressScriptHash(serializedScript []byte, netID NetID) (*AddressScriptHash, error) {
	scriptHash := Hash160(serializedScript)
	return newAddressScriptHashFromHash(netID, scriptHash)
}

// NewAddressScriptHashFromHash returns a new AddressScriptHash. scriptHash
// must be 20 bytes.
func NewAddressScriptHashFromHash(scriptHash []byte, netID NetID) (*AddressScriptHash, error) {
	return newAddressScriptHashFromHash(netID, scriptHash)
}

func newAddressScriptHashFromHash(netID NetID, scriptHash []byte) (*AddressScriptHash, error) {
	if len(scriptHash) != ripemd160.Size {
		return nil, errors.New("scriptHash must be 20 bytes")
	}

	addr := &AddressScriptHash{netID: netID}
	copy(addr.hash[:], scriptHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-script-hash address.
// Part of the Address interface.
func (a *AddressScriptHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], byte(a.netID))
}

// ScriptAddress returns the bytes to be included in a txout script to pay to
// a script hash. Part of the Address interface.
func (a *AddressScriptHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether or not the pay-to-script-hash address was
// produced for the network identified by pubKeyHashID/scriptHashID.
func (a *AddressScriptHash) IsForNet(_, scriptHashID NetID) bool {
	return a.netID == scriptHashID
}

// String returns a human-readable string for the pay-to-script-hash address.
func (a *AddressScriptHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the script hash.
func (a *AddressScriptHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}
