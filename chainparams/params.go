// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainparams defines the per-network constants consumed by the
// block assembler and miner driver: proof-of-work limits, the PoS start
// height, the reward/budget schedule, the network-reward cap, and the
// founder/lab/budget payout addresses.
package chainparams

import (
	"math/big"
	"time"

	"github.com/vaultchain/vaultd/util"
)

// WitnessScaleFactor relates a transaction's weight units to its raw byte
// size, following the segwit weight convention.
const WitnessScaleFactor = 4

// DefaultBlockMaxWeight is the default policy value for the maximum weight
// an assembled block may occupy.
const DefaultBlockMaxWeight = 3000000

// MaxBlockWeight is the hard consensus ceiling on a block's weight.
const MaxBlockWeight = 4000000

// DefaultBlockMinTxFee is the default minimum feerate, in amount per
// kilo-weight-unit, a package must clear when the minimum-feerate gate is
// enabled (disabled by default; see DESIGN.md Open Question (b)).
const DefaultBlockMinTxFee = 1000

// CoinbaseWeightReservation and CoinbaseSigOpReservation are the resource
// accounting baseline reserved for the coinbase before any package is
// considered, per §4.1.
const (
	CoinbaseWeightReservation = 4000
	CoinbaseSigOpReservation  = 400
)

// MaxBlockSigOpCost is the hard consensus ceiling on a block's aggregate
// sigop cost.
const MaxBlockSigOpCost = 80000

// AccumulatorCheckpointInterval is the height interval at which the
// privacy-scheme accumulator checkpoint map is recomputed; at all other
// heights it is copied from the previous block (§4.3 step 14).
const AccumulatorCheckpointInterval = 10

// MaxFutureBlockTime and MaxPastBlockTime bound how far a PoS block's
// timestamp may drift from the staking node's adjusted clock (§4.4).
const (
	MaxFutureBlockTime = 15 * time.Second
	MaxPastBlockTime   = 15 * time.Second
)

// CoinbaseFlags is appended to the PoW coinbase scriptsig alongside the
// height and extra-nonce pushes (§4.4).
var CoinbaseFlags = []byte("/vaultd/")

// bigOne is reused to avoid repeated allocation when deriving pow limits.
var bigOne = big.NewInt(1)

var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)
var regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
var testNetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 239), bigOne)

// BudgetEntry is one named recipient of the per-block reward split plus the
// fraction of the schedule's budget total it receives, expressed as
// parts-per-thousand so integer arithmetic stays exact.
type BudgetEntry struct {
	Name         string
	Address      util.Address
	PartsPerMille int64
}

// Params defines a network by name along with all consensus- and
// policy-relevant constants the assembler and miner driver need.
type Params struct {
	Name string

	// PowLimit is the highest allowed proof-of-work target for this
	// network, and PowLimitBits its compact encoding.
	PowLimit     *big.Int
	PowLimitBits uint32

	// TargetTimePerBlock is the desired spacing between blocks.
	TargetTimePerBlock time.Duration

	// PoSStartHeight is the first height at which createTemplate may be
	// invoked with isPoS=true (§4.3 step 2, §8 scenario 4).
	PoSStartHeight uint64

	// MaxNetworkReward caps the network-reward reserve carried across
	// blocks into the coinbase (§4.3 step 7).
	MaxNetworkReward int64

	// BaseBlockReward is the block subsidy before any budget split, as a
	// function of height (halving schedule).
	BaseBlockReward func(height uint64) int64

	// BudgetSchedule returns the budget (treasury), founder, and lab
	// entries active at height, or nil/zero amounts before the budget
	// system activates. The three entries' PartsPerMille always sum to
	// 1000, so budget+founder+lab exhausts budgetTotal exactly (§3
	// "Reward split", §4.3 step 11's four-output coinbase matrix).
	BudgetSchedule func(height uint64) (budgetTotal int64, budget, founder, lab BudgetEntry)

	// NetworkRewardAddress is the well-known address whose outputs, when
	// standard, contribute to the network-reward reserve scan.
	NetworkRewardAddress util.Address

	// PubKeyHashAddrID and ScriptHashAddrID select the base58check version
	// bytes used to decode/encode addresses on this network.
	PubKeyHashAddrID util.NetID
	ScriptHashAddrID util.NetID
}

// HalvingInterval is the number of blocks between block-reward halvings.
const HalvingInterval = 210000

// StandardBaseBlockReward implements the conventional geometric halving
// schedule shared by MainNetParams and TestNetParams: a fixed reward per
// block that halves every HalvingInterval blocks down to zero.
func StandardBaseBlockReward(initialReward int64) func(height uint64) int64 {
	return func(height uint64) int64 {
		halvings := height / HalvingInterval
		if halvings >= 64 {
			return 0
		}
		return initialReward >> halvings
	}
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:                 "mainnet",
	PowLimit:             mainPowLimit,
	PowLimitBits:         0x1e0fffff,
	TargetTimePerBlock:   60 * time.Second,
	PoSStartHeight:       259200,
	MaxNetworkReward:     5000 * 1e8,
	BaseBlockReward:      StandardBaseBlockReward(10 * 1e8),
	NetworkRewardAddress: wellKnownAddress(0x46, "vaultd-mainnet-network-reward-reserve"),
	PubKeyHashAddrID:     0x46,
	ScriptHashAddrID:     0x0a,
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:                 "testnet",
	PowLimit:             testNetPowLimit,
	PowLimitBits:         0x1e0fffff,
	TargetTimePerBlock:   60 * time.Second,
	PoSStartHeight:       200,
	MaxNetworkReward:     5000 * 1e8,
	BaseBlockReward:      StandardBaseBlockReward(10 * 1e8),
	NetworkRewardAddress: wellKnownAddress(0x8b, "vaultd-testnet-network-reward-reserve"),
	PubKeyHashAddrID:     0x8b,
	ScriptHashAddrID:     0x13,
}

// RegressionNetParams defines the network parameters for the regression
// test network, where PoS activates at genesis and pow limit is wide open
// to keep test block production fast.
var RegressionNetParams = Params{
	Name:                 "regtest",
	PowLimit:             regressionPowLimit,
	PowLimitBits:         0x207fffff,
	TargetTimePerBlock:   1 * time.Second,
	PoSStartHeight:       0,
	MaxNetworkReward:     5000 * 1e8,
	BaseBlockReward:      StandardBaseBlockReward(50 * 1e8),
	NetworkRewardAddress: wellKnownAddress(0x6f, "vaultd-regtest-network-reward-reserve"),
	PubKeyHashAddrID:     0x6f,
	ScriptHashAddrID:     0xc4,
}

func init() {
	MainNetParams.BudgetSchedule = standardBudgetSchedule(
		budgetActivationHeight,
		wellKnownAddress(MainNetParams.PubKeyHashAddrID, "vaultd-mainnet-budget"),
		wellKnownAddress(MainNetParams.PubKeyHashAddrID, "vaultd-mainnet-founder"),
		wellKnownAddress(MainNetParams.PubKeyHashAddrID, "vaultd-mainnet-lab"),
		MainNetParams.BaseBlockReward,
	)
	TestNetParams.BudgetSchedule = standardBudgetSchedule(
		budgetActivationHeight,
		wellKnownAddress(TestNetParams.PubKeyHashAddrID, "vaultd-testnet-budget"),
		wellKnownAddress(TestNetParams.PubKeyHashAddrID, "vaultd-testnet-founder"),
		wellKnownAddress(TestNetParams.PubKeyHashAddrID, "vaultd-testnet-lab"),
		TestNetParams.BaseBlockReward,
	)
	RegressionNetParams.BudgetSchedule = standardBudgetSchedule(
		0,
		wellKnownAddress(RegressionNetParams.PubKeyHashAddrID, "vaultd-regtest-budget"),
		wellKnownAddress(RegressionNetParams.PubKeyHashAddrID, "vaultd-regtest-founder"),
		wellKnownAddress(RegressionNetParams.PubKeyHashAddrID, "vaultd-regtest-lab"),
		RegressionNetParams.BaseBlockReward,
	)
}

// budgetActivationHeight is the height at which a network's budget
// schedule starts splitting off founder/lab shares; before it,
// computeRewardSplit pays the whole subsidy to the miner/coinstake.
const budgetActivationHeight = 43200

// budgetShareParts, founderShareParts, and labShareParts split a network's
// budget total three ways, in parts-per-mille of the budget total (not of
// blockReward): they always sum to 1000 so the three payments exhaust the
// budget exactly, each landing in its own coinbase output (§4.3 step 11's
// [miner, budget, lab, founder] matrix — the treasury's own "budget" slot
// is distinct from the named founder/lab payees).
const (
	budgetShareParts  = 150
	founderShareParts = 250
	labShareParts     = 600
)

// budgetFraction is the fraction (numerator over 1000) of blockReward
// diverted into the budget total once a network's budget schedule has
// activated.
const budgetFraction = 200

// standardBudgetSchedule returns a BudgetSchedule func that activates at
// activationHeight, splitting budgetFraction/1000 of the block reward
// between the treasury, founder, and lab addresses at the shares above.
func standardBudgetSchedule(activationHeight uint64, budgetAddr, founderAddr, labAddr util.Address, reward func(height uint64) int64) func(uint64) (int64, BudgetEntry, BudgetEntry, BudgetEntry) {
	return func(height uint64) (int64, BudgetEntry, BudgetEntry, BudgetEntry) {
		budget := BudgetEntry{Name: "budget", Address: budgetAddr, PartsPerMille: budgetShareParts}
		founder := BudgetEntry{Name: "founder", Address: founderAddr, PartsPerMille: founderShareParts}
		lab := BudgetEntry{Name: "lab", Address: labAddr, PartsPerMille: labShareParts}
		if height < activationHeight {
			return 0, budget, founder, lab
		}
		budgetTotal := (reward(height) * budgetFraction) / 1000
		return budgetTotal, budget, founder, lab
	}
}

// wellKnownAddress derives a deterministic P2PKH address for a network's
// well-known payee (founder, lab, or network-reward reserve) from a fixed
// label, so the networks defined in this package exercise the full budget
// and network-reward-reserve machinery out of the box without depending on
// externally-configured wallet addresses.
func wellKnownAddress(netID util.NetID, label string) util.Address {
	hash := util.Hash160([]byte(label))
	addr, err := util.NewAddressPubKeyHash(hash, netID)
	if err != nil {
		panic(err)
	}
	return addr
}

// ByName returns the registered Params for the given network name.
func ByName(name string) (*Params, bool) {
	switch name {
	case "mainnet":
		return &MainNetParams, true
	case "testnet":
		return &TestNetParams, true
	case "regtest":
		return &RegressionNetParams, true
	}
	return nil, false
}
