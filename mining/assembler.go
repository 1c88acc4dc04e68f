// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/btcsuite/btclog"
	"github.com/pkg/errors"
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/logger"
	"github.com/vaultchain/vaultd/util"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

var log btclog.Logger

func init() {
	l, _ := logger.Get(logger.SubsystemTags.ASMB)
	log = l
}

// Error taxonomy from §7. CreateTemplate returns one of these (possibly
// wrapped with pkg/errors for context) for the failures they name; other
// failures (privacy screening, coinbase construction, accumulator
// checkpoint, a coinstake that is not a privacy spend) return their own
// errors.
var (
	ErrWalletUnavailable = errors.New("no main wallet available for proof-of-stake template")
	ErrCoinstakeFailed   = errors.New("wallet could not produce a coinstake")
	ErrMempoolBusy       = errors.New("mempool try-lock failed")
	ErrTemplateInvalid   = errors.New("assembled template failed pre-submit validation")
	ErrSignFailed        = errors.New("block signing failed")
)

// Assembler drives CreateTemplate (§4.3). It holds references to every
// collaborator and the extraction functions for the privacy screening pass;
// it owns no per-call state.
type Assembler struct {
	Params *chainparams.Params
	Policy *Policy

	Chain       collab.Chain
	Mempool     collab.Mempool
	UTXOView    collab.UTXOView
	Wallet      collab.Wallet
	Consensus   collab.Consensus
	Accumulator collab.Accumulator
	Time        collab.TimeSource

	ExtractSerials  privacyExtractor
	ExtractPubcoins privacyExtractor

	// BudgetAddress, LabAddress, and FounderAddress are the payout
	// addresses for the budget schedule's treasury/lab/founder shares.
	BudgetAddress  util.Address
	LabAddress     util.Address
	FounderAddress util.Address
}

// CreateTemplate runs the full §4.3 pipeline and returns a completed
// template ready for hashing (PoW) or already signed (PoS).
func (a *Assembler) CreateTemplate(payoutScript []byte, wantWitness, isPoS, isFullNodeProof bool) (*Template, error) {
	// Step 1: snapshot the tip.
	tip := a.Chain.Tip()
	height := tip.Height() + 1

	t := &Template{Height: height, IsPoS: isPoS}

	// Step 2: optional coinstake.
	var coinstakeTime time.Time
	var coinstakeTx *wire.MsgTx
	if isPoS {
		if height < a.Params.PoSStartHeight {
			return nil, errors.Wrapf(ErrCoinstakeFailed, "height %d below PoS start height %d", height, a.Params.PoSStartHeight)
		}
		if a.Wallet == nil {
			return nil, ErrWalletUnavailable
		}

		nBits := a.Consensus.GetNextWorkRequired(tip, true)
		var err error
		coinstakeTx, coinstakeTime, err = a.Wallet.CreateCoinStake(tip, nBits)
		if err != nil {
			return nil, errors.Wrap(ErrCoinstakeFailed, err.Error())
		}
		t.Header.Bits = nBits
	}

	// Step 3: acquire mempool guard non-blockingly.
	if !a.Mempool.TryLock() {
		return nil, ErrMempoolBusy
	}
	defer a.Mempool.Unlock()

	// Step 4: block-header baseline.
	version := a.Consensus.ComputeBlockVersion(tip)
	if a.Policy.BlockVersionOverride != 0 {
		version = a.Policy.BlockVersionOverride
	}
	t.Header.Version = version
	t.Header.HashPrevBlock = tip.Hash()

	adjusted := a.Time.AdjustedNetworkTime()
	minTime := tip.MedianTimePast().Add(time.Second)
	blockTime := adjusted
	if blockTime.Before(minTime) {
		blockTime = minTime
	}
	if isPoS && !coinstakeTime.IsZero() {
		blockTime = coinstakeTime
	}
	t.Header.Timestamp = blockTime

	// Step 5: locktime cutoff. Median-time-past selection is a
	// consensus soft-fork flag the Consensus collaborator would expose;
	// absent that detail here, use medianTimePast unconditionally, which
	// is the stricter and forward-compatible choice.
	locktimeCutoff := tip.MedianTimePast()

	// Step 6: package selection.
	resources := newResourceAccounting(a.Policy)
	t.Transactions = append(t.Transactions, nil) // reserve coinbase slot
	t.Fees = append(t.Fees, 0)
	t.SigOpCosts = append(t.SigOpCosts, 0)

	preIncluded := []collab.TxHandle{}
	if isPoS {
		installCoinstake(t, coinstakeTx)
	}

	sel := newSelector(log, a.Policy, resources, a.Mempool)
	sel.seed(preIncluded)
	sel.run(t, height, locktimeCutoff, wantWitness)

	// Step 7: network-reward reserve.
	priorReserve := int64(0)
	if prev, err := a.Chain.PreviousIndex(tip.Height()); err == nil && prev != nil {
		priorReserve = prev.NetworkRewardReserve()
	} else {
		priorReserve = tip.NetworkRewardReserve()
	}
	networkReward := scanNetworkRewardReserve(a.Params, priorReserve, t.Transactions[skipReservedSlots(isPoS):])
	t.NetworkRewardReserve = networkReward

	// Step 8-9: privacy screening and rebuild.
	duplicates, err := screenPrivacyTransactions(t.Transactions, a.Chain, height, a.ExtractSerials, a.ExtractPubcoins)
	if err != nil {
		return nil, errors.Wrap(err, "privacy screening failed")
	}
	a.rebuildWithoutDuplicates(t, duplicates)

	// Step 10: reward split.
	split := computeRewardSplit(a.Params, height)

	// Step 11: construct coinbase.
	coinbaseTx, err := buildCoinbase(height, payoutScript, split, networkReward, isPoS, a.BudgetAddress, a.LabAddress, a.FounderAddress)
	if err != nil {
		return nil, err
	}
	t.Transactions[0] = coinbaseTx
	t.Fees[0] = -sumFees(t.Fees[1:])
	t.SigOpCosts[0] = 0

	// Step 13: finalize header.
	if !isPoS {
		t.Header.Timestamp = a.Time.AdjustedNetworkTime()
	}
	t.Header.Bits = a.Consensus.GetNextWorkRequired(tip, isPoS)
	t.Header.Nonce = 0
	t.recomputeMerkleRoots()

	// Step 14: accumulator checkpoint.
	if height%chainparams.AccumulatorCheckpointInterval == 0 {
		checkpoints := a.Accumulator.GetCheckpoints(false)
		if err := a.Accumulator.CalculateCheckpoint(height, checkpoints); err != nil {
			return nil, errors.Wrap(err, "accumulator checkpoint computation failed")
		}
		t.AccumulatorCheckpoints = checkpoints
	} else {
		t.AccumulatorCheckpoints = a.Accumulator.GetCheckpoints(false)
	}
	t.Header.AccumulatorCheckpoint = hashCheckpoints(t.AccumulatorCheckpoints)

	// Step 15: full-node proof.
	if isFullNodeProof {
		if isPoS {
			proofHash := chainhash.DoubleHashH([]byte("full-node-proof"))
			t.Header.FullNodeProofHash = &proofHash
		} else {
			log.Warnf("full-node proof requested without PoS at height %d; ignoring (incompatible)", height)
		}
	}

	// Step 16: auxiliary data hash.
	t.Header.AuxDataHash = computeAuxDataHash(&t.Header)

	// Step 17: block signing.
	if isPoS {
		if coinstakeTx.Class != wire.TxClassZerocoinSpend {
			return nil, errors.New("coinstake must be a privacy spend to sign a proof-of-stake block")
		}
		serials, err := a.ExtractSerials(coinstakeTx)
		if err != nil || len(serials) == 0 {
			return nil, errors.Wrap(ErrSignFailed, "coinstake carries no serial to key off of")
		}
		privKey, err := a.Wallet.GetZerocoinKey(serials[0])
		if err != nil {
			return nil, errors.Wrap(ErrSignFailed, err.Error())
		}
		sig, err := a.Wallet.Sign(t.Header.BlockHash(), privKey)
		if err != nil {
			return nil, errors.Wrap(ErrSignFailed, err.Error())
		}
		t.Header.Signature = sig
	}

	// Step 18: pre-submit validation.
	if err := a.Consensus.TestBlockValidity(t.Block(), tip, isPoS); err != nil {
		return nil, errors.Wrap(ErrTemplateInvalid, err.Error())
	}

	return t, nil
}

func skipReservedSlots(isPoS bool) int {
	if isPoS {
		return 2
	}
	return 1
}

func sumFees(fees []int64) int64 {
	var total int64
	for _, f := range fees {
		total += f
	}
	return total
}

// hashCheckpoints binds the accumulator checkpoint map to a single hash for
// the header field (§3's "accumulator-checkpoint map" is carried in full on
// the Template; the header only needs a binding digest).
func hashCheckpoints(checkpoints collab.AccumulatorCheckpoints) chainhash.Hash {
	if len(checkpoints) == 0 {
		return chainhash.Hash{}
	}
	buf := make([]byte, 0, len(checkpoints)*(4+chainhash.HashSize))
	for id, h := range checkpoints {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
		buf = append(buf, h[:]...)
	}
	return chainhash.DoubleHashH(buf)
}

// computeAuxDataHash binds the merkle root, witness merkle root, and
// accumulator checkpoint together (§4.3 step 16).
func computeAuxDataHash(h *wire.BlockHeader) chainhash.Hash {
	buf := make([]byte, 0, 3*chainhash.HashSize)
	buf = append(buf, h.HashMerkleRoot[:]...)
	buf = append(buf, h.HashWitnessMerkleRoot[:]...)
	buf = append(buf, h.AccumulatorCheckpoint[:]...)
	return chainhash.DoubleHashH(buf)
}

// rebuildWithoutDuplicates implements §4.3 step 9: drop duplicate privacy
// txs (and request their recursive eviction from the mempool) and any tx
// whose inputs are missing from the UTXO view, except privacy spends and
// anonymous inputs which are verified through their own proofs.
func (a *Assembler) rebuildWithoutDuplicates(t *Template, duplicates map[*wire.MsgTx]struct{}) {
	rebuilt := t.Transactions[:0]
	fees := t.Fees[:0]
	sigOps := t.SigOpCosts[:0]

	if len(duplicates) > 0 {
		for _, h := range a.Mempool.ByAncestorFeerate() {
			if _, dup := duplicates[h.Tx()]; dup {
				if err := a.Mempool.EvictRecursive(h); err != nil {
					log.Warnf("could not evict duplicate privacy tx %s: %v", h.Tx().TxHash(), err)
				}
			}
		}
	}

	for i, tx := range t.Transactions {
		if tx == nil {
			rebuilt = append(rebuilt, tx)
			if i < len(t.Fees) {
				fees = append(fees, t.Fees[i])
			}
			if i < len(t.SigOpCosts) {
				sigOps = append(sigOps, t.SigOpCosts[i])
			}
			continue
		}
		if _, dup := duplicates[tx]; dup {
			continue
		}
		if tx.Class != wire.TxClassZerocoinSpend && !a.UTXOView.HasAllInputs(tx) {
			continue
		}

		rebuilt = append(rebuilt, tx)
		if i < len(t.Fees) {
			fees = append(fees, t.Fees[i])
		}
		if i < len(t.SigOpCosts) {
			sigOps = append(sigOps, t.SigOpCosts[i])
		}
	}

	t.Transactions = rebuilt
	t.Fees = fees
	t.SigOpCosts = sigOps
}
