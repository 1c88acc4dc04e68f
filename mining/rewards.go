// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"

	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/txscript"
	"github.com/vaultchain/vaultd/wire"
)

// rewardSplit is the four-scalar reward split of §3 "Reward split": block
// reward, the treasury's own budget payment, founder payment, lab payment.
// budgetPayment, founderPayment, and labPayment are three independent
// shares of the schedule's budgetTotal, each paid to its own address
// (§4.3 step 11's [miner, budget, lab, founder] coinbase output matrix).
type rewardSplit struct {
	blockReward    int64
	founderPayment int64
	labPayment     int64
	budgetPayment  int64
}

// computeRewardSplit derives the reward split at height from the network's
// budget schedule (§4.3 step 10).
func computeRewardSplit(params *chainparams.Params, height uint64) rewardSplit {
	blockReward := params.BaseBlockReward(height)

	if params.BudgetSchedule == nil {
		return rewardSplit{blockReward: blockReward}
	}

	budgetTotal, budget, founder, lab := params.BudgetSchedule(height)
	if budgetTotal == 0 {
		return rewardSplit{blockReward: blockReward}
	}

	budgetAmount := (budgetTotal * budget.PartsPerMille) / 1000
	founderAmount := (budgetTotal * founder.PartsPerMille) / 1000
	labAmount := (budgetTotal * lab.PartsPerMille) / 1000

	return rewardSplit{
		blockReward:    blockReward,
		founderPayment: founderAmount,
		labPayment:     labAmount,
		budgetPayment:  budgetAmount,
	}
}

// scanNetworkRewardReserve implements §4.3 step 7: starting from the prior
// carried reserve, scan every included tx's standard outputs paying the
// network-reward address, summing their value, capped at
// MAX_NETWORK_REWARD. Non-standard outputs contribute nothing (§9 Open
// Question (c)).
func scanNetworkRewardReserve(params *chainparams.Params, priorReserve int64, included []*wire.MsgTx) int64 {
	reserve := priorReserve

	if params.NetworkRewardAddress != nil {
		reserveScript, err := txscript.PayToAddrScript(params.NetworkRewardAddress)
		if err == nil {
			for _, tx := range included {
				for _, out := range tx.TxOut {
					if !txscript.IsStandardOutput(out.PkScript) {
						continue
					}
					if bytes.Equal(out.PkScript, reserveScript) {
						reserve += out.Value
					}
				}
			}
		}
	}

	if reserve > params.MaxNetworkReward {
		reserve = params.MaxNetworkReward
	}
	return reserve
}
