// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/vaultchain/vaultd/util/chainhash"
)

func TestBlockHeaderSerializeDeserializeRoundTrip(t *testing.T) {
	proof := chainhash.DoubleHashH([]byte("proof"))
	h := &BlockHeader{
		Version:               1,
		HashPrevBlock:         chainhash.DoubleHashH([]byte("prev")),
		HashMerkleRoot:        chainhash.DoubleHashH([]byte("merkle")),
		HashWitnessMerkleRoot: chainhash.DoubleHashH([]byte("wmerkle")),
		AccumulatorCheckpoint: chainhash.DoubleHashH([]byte("accumulator")),
		AuxDataHash:           chainhash.DoubleHashH([]byte("aux")),
		Timestamp:             time.Unix(1700000000, 0),
		Bits:                  0x1d00ffff,
		Nonce:                 123456789,
		FullNodeProofHash:     &proof,
		Signature:             []byte{0x30, 0x44, 0x02},
	}

	var buf bytes.Buffer
	if err := h.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var got BlockHeader
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.BlockHash() != h.BlockHash() {
		t.Fatal("round-tripped header hash does not match the original")
	}
	if !got.Timestamp.Equal(h.Timestamp) {
		t.Fatalf("timestamp mismatch: got %v want %v", got.Timestamp, h.Timestamp)
	}
	if got.FullNodeProofHash == nil || !got.FullNodeProofHash.IsEqual(h.FullNodeProofHash) {
		t.Fatal("full node proof hash did not round trip")
	}
	if !bytes.Equal(got.Signature, h.Signature) {
		t.Fatalf("signature mismatch: got %x want %x", got.Signature, h.Signature)
	}
}

func TestBlockHeaderHashExcludesSignature(t *testing.T) {
	h := &BlockHeader{Version: 1, Bits: 0x1d00ffff}
	before := h.BlockHash()

	h.Signature = []byte{0x01, 0x02, 0x03}
	after := h.BlockHash()

	if before != after {
		t.Fatal("BlockHash should not change when only the trailing signature changes")
	}
}

func TestBlockHeaderWithoutFullNodeProof(t *testing.T) {
	h := &BlockHeader{Version: 1, Bits: 0x1d00ffff}

	var buf bytes.Buffer
	if err := h.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var got BlockHeader
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.FullNodeProofHash != nil {
		t.Fatal("expected a nil FullNodeProofHash when none was set")
	}
}
