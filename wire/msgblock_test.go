// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/vaultchain/vaultd/util/chainhash"
)

func buildTestBlock() *MsgBlock {
	header := &BlockHeader{Version: 1, Bits: 0x1d00ffff}
	block := NewMsgBlock(header)

	coinbase := NewMsgTx(1)
	coinbase.AddTxIn(NewTxIn(NewOutPoint(&zeroHash, MaxTxInSequenceNum), []byte{0x00}))
	coinbase.AddTxOut(NewTxOut(5000000000, []byte{0x51}))
	block.AddTransaction(coinbase)

	prev := chainhash.DoubleHashH([]byte("spendable"))
	spend := NewMsgTx(1)
	spend.AddTxIn(NewTxIn(NewOutPoint(&prev, 0), []byte{0x52}))
	spend.TxIn[0].Witness = TxWitness{[]byte("sig")}
	spend.AddTxOut(NewTxOut(4900000000, []byte{0x53}))
	block.AddTransaction(spend)

	return block
}

func TestMsgBlockSerializeDeserializeRoundTrip(t *testing.T) {
	block := buildTestBlock()

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != block.SerializeSize() {
		t.Fatalf("SerializeSize() = %d, actual %d", block.SerializeSize(), buf.Len())
	}

	var got MsgBlock
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.BlockHash() != block.BlockHash() {
		t.Fatal("round-tripped block hash does not match the original")
	}
	if len(got.Transactions) != len(block.Transactions) {
		t.Fatalf("got %d transactions, want %d", len(got.Transactions), len(block.Transactions))
	}
	for i, tx := range got.Transactions {
		if tx.TxHash() != block.Transactions[i].TxHash() {
			t.Fatalf("transaction %d hash mismatch after round trip", i)
		}
	}
}

func TestBuildMerkleRootSingleLeaf(t *testing.T) {
	h := chainhash.DoubleHashH([]byte("only"))
	if root := BuildMerkleRoot([]chainhash.Hash{h}); root != h {
		t.Fatalf("single-leaf merkle root should equal the leaf itself, got %s want %s", root, h)
	}
}

func TestBuildMerkleRootDuplicatesOddLevel(t *testing.T) {
	a := chainhash.DoubleHashH([]byte("a"))
	b := chainhash.DoubleHashH([]byte("b"))
	c := chainhash.DoubleHashH([]byte("c"))

	// Bitcoin's odd-level convention duplicates the last node, so three
	// leaves [a b c] should produce the same root as four leaves [a b c c].
	three := BuildMerkleRoot([]chainhash.Hash{a, b, c})
	four := BuildMerkleRoot([]chainhash.Hash{a, b, c, c})

	if three != four {
		t.Fatalf("odd-level duplicate-last-node convention violated: %s != %s", three, four)
	}
}

func TestWitnessHashesZeroesCoinbaseSlot(t *testing.T) {
	block := buildTestBlock()
	hashes := block.WitnessHashes()

	var zero chainhash.Hash
	if hashes[0] != zero {
		t.Fatalf("coinbase witness hash should be the zero hash, got %s", hashes[0])
	}
	if hashes[1] == zero {
		t.Fatal("non-coinbase witness hash should not be the zero hash")
	}
}
