// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/mining"
)

// Deps bundles every collaborator (§6) a running Assembler and its miner
// drivers need, plus the Assembler itself once those collaborators are
// wired into it.
type Deps struct {
	Assembler *mining.Assembler
	Chain     collab.Chain
	Consensus collab.Consensus
	Network   collab.Network
	Wallet    collab.Wallet
	Time      collab.TimeSource
	Shutdown  collab.Shutdown
}

// Collaborators is the binary's sole extension point: a hosting process
// that owns a real chain, mempool, UTXO view, wallet, consensus engine,
// and P2P layer sets this before main's run loop starts, handing minerd
// a fully-wired Deps. It is nil in this module, since those collaborators
// are exactly what the top-level Non-goals exclude from this repository's
// scope; a standalone `go build` of this binary with Collaborators unset
// logs a warning and exits cleanly rather than mining against nothing.
var Collaborators func(params *chainparams.Params, policy *mining.Policy) Deps
