// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "github.com/vaultchain/vaultd/chainparams"

// Policy houses the policy (configuration parameters) used to control block
// template assembly (§6 Configuration surface).
type Policy struct {
	// BlockMaxWeight is the maximum weight an assembled block may occupy;
	// clamped to [4000, MAX_BLOCK_WEIGHT/4] by NewPolicy regardless of the
	// configured value (§4.1).
	BlockMaxWeight uint64

	// BlockMinTxFee is the floor a package's aggregate feerate must clear
	// when MinFeerateGate is enabled (§4.2 minimum-feerate gate).
	BlockMinTxFee int64

	// MinFeerateGate enables the optional minimum-feerate gate. Disabled
	// by default; see DESIGN.md Open Question (b).
	MinFeerateGate bool

	// BlockVersionOverride, when non-zero, replaces the consensus-computed
	// block version. Intended for regtest only.
	BlockVersionOverride int32

	// GenOverride bypasses the initial-block-download and tip-age gates in
	// the miner driver loops.
	GenOverride bool

	// PrintPriority turns on per-accepted-package feerate debug logging in
	// the selector.
	PrintPriority bool
}

// NewPolicy returns a Policy with blockMaxWeight clamped into the legal
// range, following the teacher's pattern of validating configuration at
// construction rather than trusting the caller.
func NewPolicy(blockMaxWeight uint64, blockMinTxFee int64, minFeerateGate bool) *Policy {
	if blockMaxWeight < chainparams.CoinbaseWeightReservation {
		blockMaxWeight = chainparams.CoinbaseWeightReservation
	}
	if maxAllowed := uint64(chainparams.MaxBlockWeight / 4); blockMaxWeight > maxAllowed {
		blockMaxWeight = maxAllowed
	}

	return &Policy{
		BlockMaxWeight: blockMaxWeight,
		BlockMinTxFee:  blockMinTxFee,
		MinFeerateGate: minFeerateGate,
	}
}
