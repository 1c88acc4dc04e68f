// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/txscript"
	"github.com/vaultchain/vaultd/util"
	"github.com/vaultchain/vaultd/wire"
)

// MaxCoinbaseScriptSigLen is the limit the PoW driver enforces on the
// rewritten coinbase scriptsig (§4.4: "assert scriptsig length <= 100").
const MaxCoinbaseScriptSigLen = 100

// CoinbaseTxVersion is the transaction version used for coinbase and
// coinstake transactions.
const CoinbaseTxVersion = 1

// buildCoinbaseScriptSig encodes height as the first push of the coinbase
// scriptsig, per §3's invariant "coinbase scriptsig begins with the block
// height".
func buildCoinbaseScriptSig(height uint64, extra []byte) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddInt64(int64(height)).
		Script()
	if err != nil {
		return nil, err
	}
	return append(script, extra...), nil
}

// buildCoinbase constructs the coinbase transaction per §4.3 step 11. The
// output matrix depends only on (isPoS, budgetPayment>0, founderPayment>0):
//
//	isPoS  budget>0  founder>0   outputs
//	no     no        -           [miner]
//	no     yes       no          [miner, budget, lab]
//	no     yes       yes         [miner, budget, lab, founder]
//	yes    no        -           [empty]
//	yes    yes       no          [budget, lab]
//	yes    yes       yes         [budget, lab, founder]
//
// The "budget" slot pays the network's treasury address for
// split.budgetPayment, a share of the schedule's budget total distinct
// from (and in addition to) the lab and founder payees. Miner output value
// is blockReward + networkReward; in PoS the miner slot is zeroed (value
// 0, empty script) when no budget payment is present, since coinstake
// carries the staker's payout instead.
func buildCoinbase(
	height uint64,
	minerScript []byte,
	split rewardSplit,
	networkReward int64,
	isPoS bool,
	budgetAddr, labAddr, founderAddr util.Address,
) (*wire.MsgTx, error) {

	scriptSig, err := buildCoinbaseScriptSig(height, nil)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(CoinbaseTxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxTxInSequenceNum}, scriptSig))

	hasBudget := split.budgetPayment > 0
	hasFounder := split.founderPayment > 0

	if !isPoS {
		minerValue := split.blockReward + networkReward
		tx.AddTxOut(wire.NewTxOut(minerValue, minerScript))

		if hasBudget {
			if err := addBudgetPayoutOutputs(tx, split, budgetAddr, labAddr, founderAddr, hasFounder); err != nil {
				return nil, err
			}
		}
		return tx, nil
	}

	// PoS: the staker's payout comes from the coinstake, not the coinbase.
	// With no budget payment either, the coinbase still carries a single
	// zeroed miner slot (value 0, empty script) rather than no outputs at
	// all (§4.3 step 11).
	if !hasBudget {
		tx.AddTxOut(wire.NewTxOut(0, nil))
		return tx, nil
	}

	if err := addBudgetPayoutOutputs(tx, split, budgetAddr, labAddr, founderAddr, hasFounder); err != nil {
		return nil, err
	}

	return tx, nil
}

// addBudgetPayoutOutputs appends the [budget, lab, (founder)] outputs
// shared by both the PoW and PoS branches of the §4.3 step 11 matrix.
func addBudgetPayoutOutputs(tx *wire.MsgTx, split rewardSplit, budgetAddr, labAddr, founderAddr util.Address, hasFounder bool) error {
	budgetScript, err := txscript.PayToAddrScript(budgetAddr)
	if err != nil {
		return err
	}
	tx.AddTxOut(wire.NewTxOut(split.budgetPayment, budgetScript))

	labScript, err := txscript.PayToAddrScript(labAddr)
	if err != nil {
		return err
	}
	tx.AddTxOut(wire.NewTxOut(split.labPayment, labScript))

	if hasFounder {
		founderScript, err := txscript.PayToAddrScript(founderAddr)
		if err != nil {
			return err
		}
		tx.AddTxOut(wire.NewTxOut(split.founderPayment, founderScript))
	}

	return nil
}

// RewriteCoinbaseScriptSig implements §4.4's PoW extra-nonce step: it
// re-encodes the coinbase scriptsig as the height push followed by the raw
// 8-byte little-endian extraNonce (not a script push) and CoinbaseFlags,
// enforces the length cap, and recomputes both merkle
// roots so the header reflects the new coinbase. Called once per template
// build before the inner nonce-search loop starts.
func RewriteCoinbaseScriptSig(t *Template, extraNonce uint64) error {
	extraNonceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(extraNonceBytes, extraNonce)

	scriptSig, err := buildCoinbaseScriptSig(t.Height, append(extraNonceBytes, chainparams.CoinbaseFlags...))
	if err != nil {
		return err
	}
	if len(scriptSig) > MaxCoinbaseScriptSigLen {
		return errors.Errorf("coinbase scriptsig length %d exceeds %d byte limit", len(scriptSig), MaxCoinbaseScriptSigLen)
	}

	t.Transactions[0].TxIn[0].SignatureScript = scriptSig
	t.recomputeMerkleRoots()
	return nil
}

// installCoinstake places coinstake at index 1 of the template's
// transaction list, ensuring the vector has length >= 2 (§4.3 step 12).
func installCoinstake(t *Template, coinstake *wire.MsgTx) {
	if len(t.Transactions) < 1 {
		t.Transactions = append(t.Transactions, nil)
	}
	if len(t.Transactions) < 2 {
		t.Transactions = append(t.Transactions, coinstake)
		t.Fees = append(t.Fees, 0)
		t.SigOpCosts = append(t.SigOpCosts, 0)
		return
	}
	t.Transactions[1] = coinstake
}
