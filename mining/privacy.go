// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

// privacyExtractor pulls the serial or pubcoin hashes a privacy tx
// references out of its Payload. The proof format itself belongs to the
// privacy proof library collaborator (out of scope; see §1 Non-goals), so
// this is an injected function rather than a parser living in this
// package.
type privacyExtractor func(tx *wire.MsgTx) ([]chainhash.Hash, error)

// screenPrivacyTransactions implements §4.3 step 8: for every included
// privacy spend/mint, extract its serial/pubcoin hashes and mark the tx as
// a duplicate if any hash collides with another included tx or with
// already-confirmed chain state. Returns the set of duplicate transactions.
func screenPrivacyTransactions(
	txs []*wire.MsgTx,
	chain collab.Chain,
	height uint64,
	extractSerials privacyExtractor,
	extractPubcoins privacyExtractor,
) (duplicates map[*wire.MsgTx]struct{}, err error) {

	duplicates = make(map[*wire.MsgTx]struct{})
	seenSerials := make(map[chainhash.Hash]*wire.MsgTx)
	seenPubcoins := make(map[chainhash.Hash]*wire.MsgTx)

	for _, tx := range txs {
		if tx == nil {
			continue
		}
		switch tx.Class {
		case wire.TxClassZerocoinSpend:
			serials, err := extractSerials(tx)
			if err != nil {
				return nil, err
			}
			for _, serial := range serials {
				if confirmed, at := chain.IsSerialConfirmed(serial); confirmed && at < height {
					duplicates[tx] = struct{}{}
					break
				}
				if other, seen := seenSerials[serial]; seen && other != tx {
					duplicates[tx] = struct{}{}
					break
				}
				seenSerials[serial] = tx
			}

		case wire.TxClassZerocoinMint:
			pubcoins, err := extractPubcoins(tx)
			if err != nil {
				return nil, err
			}
			for _, pubcoin := range pubcoins {
				if confirmed, at := chain.IsPubcoinConfirmed(pubcoin); confirmed && at < height {
					duplicates[tx] = struct{}{}
					break
				}
				if other, seen := seenPubcoins[pubcoin]; seen && other != tx {
					duplicates[tx] = struct{}{}
					break
				}
				seenPubcoins[pubcoin] = tx
			}
		}
	}

	return duplicates, nil
}
