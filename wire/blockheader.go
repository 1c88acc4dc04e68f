// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/vaultchain/vaultd/util/chainhash"
)

// BaseBlockHeaderPayload is the number of bytes a block header takes to
// serialize, not counting the variable-length accumulator checkpoint map or
// the trailing PoS signature (which is excluded from the hashed payload).
// Version 4 + PrevBlock hash + HashMerkleRoot hash + HashWitnessMerkleRoot
// hash + AccumulatorChecksHash hash + AuxDataHash hash + Timestamp 8 +
// Bits 4 + Nonce 8.
const BaseBlockHeaderPayload = 4 + 5*chainhash.HashSize + 8 + 4 + 8

// BlockVersion is bumped whenever the hashed header layout changes in a way
// that requires old clients to recognize the new block as unfamiliar.
const BlockVersion = 1

// BlockHeader defines information about a block.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// HashPrevBlock is the hash of the previous block in the chain.
	HashPrevBlock chainhash.Hash

	// HashMerkleRoot is the merkle tree reference to the hash of all
	// transactions for the block.
	HashMerkleRoot chainhash.Hash

	// HashWitnessMerkleRoot is the merkle tree reference to the hash of all
	// witness-augmented transactions for the block. Distinct from
	// HashMerkleRoot.
	HashWitnessMerkleRoot chainhash.Hash

	// AccumulatorCheckpoint is the hash binding the privacy-scheme
	// accumulator checkpoint map at this height; refreshed every 10 blocks,
	// otherwise copied from the previous block (see §4.3 step 14).
	AccumulatorCheckpoint chainhash.Hash

	// AuxDataHash binds HashMerkleRoot, HashWitnessMerkleRoot, and the
	// accumulator checkpoint map together (see §4.3 step 16).
	AuxDataHash chainhash.Hash

	// Timestamp is the time the block was created.
	Timestamp time.Time

	// Bits is the difficulty target for the block.
	Bits uint32

	// Nonce is used to generate the block for proof-of-work.
	Nonce uint64

	// FullNodeProofHash is present only when the block carries a full-node
	// proof (PoS + full-node-proof flags both set; see §4.3 step 15).
	FullNodeProofHash *chainhash.Hash

	// Signature is the PoS block signature appended after the hashed
	// header fields (see §4.3 step 17). Absent on PoW blocks.
	Signature []byte
}

// BlockHash computes the block identifier hash for the given block header.
// The signature and the optional full-node-proof hash are not part of the
// hashed payload: the signature is computed *over* this hash, and the
// full-node-proof hash is carried only in the serialized trailer (neither
// this hash nor AuxDataHash commits to it).
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BaseBlockHeaderPayload))
	_ = writeBlockHeader(buf, h)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize encodes the full header, including the variable-length trailing
// fields, to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeBlockHeader(w, h); err != nil {
		return err
	}

	hasProof := h.FullNodeProofHash != nil
	if err := WriteElement(w, hasProof); err != nil {
		return err
	}
	if hasProof {
		if err := WriteElement(w, h.FullNodeProofHash); err != nil {
			return err
		}
	}

	return WriteVarBytes(w, h.Signature)
}

// Deserialize decodes a header previously written by Serialize.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := readBlockHeader(r, h); err != nil {
		return err
	}

	var hasProof bool
	if err := ReadElement(r, &hasProof); err != nil {
		return err
	}
	if hasProof {
		var proof chainhash.Hash
		if err := ReadElement(r, &proof); err != nil {
			return err
		}
		h.FullNodeProofHash = &proof
	}

	sig, err := ReadVarBytes(r, 256, "signature")
	if err != nil {
		return err
	}
	h.Signature = sig
	return nil
}

func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	return readElements(r, &bh.Version, &bh.HashPrevBlock, &bh.HashMerkleRoot,
		&bh.HashWitnessMerkleRoot, &bh.AccumulatorCheckpoint, &bh.AuxDataHash,
		(*int64Time)(&bh.Timestamp), &bh.Bits, &bh.Nonce)
}

func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	return writeElements(w, bh.Version, &bh.HashPrevBlock, &bh.HashMerkleRoot,
		&bh.HashWitnessMerkleRoot, &bh.AccumulatorCheckpoint, &bh.AuxDataHash,
		bh.Timestamp.Unix(), bh.Bits, bh.Nonce)
}
