// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/logger"
)

func testLog() btclog.Logger {
	l, _ := logger.Get(logger.SubsystemTags.SELR)
	return l
}

// fakeMempool is a tiny in-memory collab.Mempool stand-in driven entirely by
// the parent/child relationships the test wires up by hand.
type fakeMempool struct {
	byFeerate   []collab.TxHandle
	descendants map[collab.TxHandle][]collab.TxHandle
	ancestors   map[collab.TxHandle][]collab.TxHandle
	locked      bool
}

func newFakeMempool() *fakeMempool {
	return &fakeMempool{
		descendants: make(map[collab.TxHandle][]collab.TxHandle),
		ancestors:   make(map[collab.TxHandle][]collab.TxHandle),
	}
}

func (m *fakeMempool) TryLock() bool { return !m.locked }
func (m *fakeMempool) Unlock()       {}

func (m *fakeMempool) ByAncestorFeerate() []collab.TxHandle { return m.byFeerate }

func (m *fakeMempool) Descendants(h collab.TxHandle) []collab.TxHandle {
	return m.descendants[h]
}

func (m *fakeMempool) AncestorSet(h collab.TxHandle, _ collab.AncestorLimits) ([]collab.TxHandle, error) {
	if set, ok := m.ancestors[h]; ok {
		return append([]collab.TxHandle(nil), set...), nil
	}
	return []collab.TxHandle{h}, nil
}

func (m *fakeMempool) EvictRecursive(h collab.TxHandle) error {
	return nil
}

// TestSelectorPrefersDependentPackageOverStandaloneLowerFeerate reproduces
// the end-to-end feerate-with-ancestors scenario: A is a low-feerate parent
// of high-feerate child B, whose combined package feerate beats standalone
// C; the selector must still place the whole A+B package ahead of C, and
// within the package parent A must precede child B.
func TestSelectorPrefersDependentPackageOverStandaloneLowerFeerate(t *testing.T) {
	a := newFakeHandle("a-parent", 200, 20, 0) // alone: feerate 0.1
	b := newFakeHandle("b-child", 200, 380, 0) // alone: feerate 1.9
	a.sizeWithAncestors, a.modFeesWithAncestors = 200, 20
	b.sizeWithAncestors, b.modFeesWithAncestors = 400, 400 // package feerate 1.0
	a.ancestorCount = 0
	b.ancestorCount = 1

	c := newFakeHandle("c-standalone", 200, 160, 0) // feerate 0.8
	c.sizeWithAncestors, c.modFeesWithAncestors = 200, 160

	pool := newFakeMempool()
	// byAncestorFeerate is ordered by each handle's own package feerate:
	// b (1.0 via ancestors) > c (0.8) > a (0.1).
	pool.byFeerate = []collab.TxHandle{b, c, a}
	pool.ancestors[b] = []collab.TxHandle{a, b}
	pool.descendants[a] = []collab.TxHandle{b}

	policy := NewPolicy(chainparams.DefaultBlockMaxWeight, 0, false)
	resources := newResourceAccounting(policy)
	sel := newSelector(testLog(), policy, resources, pool)

	tmpl := &Template{}
	sel.run(tmpl, 100, time.Now(), true)

	if len(tmpl.Transactions) != 3 {
		t.Fatalf("expected all 3 transactions selected, got %d", len(tmpl.Transactions))
	}

	// The A+B package must be committed as a unit, sorted by ancestor count
	// ascending (§4.2 step 7), so A precedes B regardless of scan order.
	aIdx, bIdx, cIdx := -1, -1, -1
	for i, tx := range tmpl.Transactions {
		switch tx {
		case a.tx:
			aIdx = i
		case b.tx:
			bIdx = i
		case c.tx:
			cIdx = i
		}
	}
	if aIdx == -1 || bIdx == -1 || cIdx == -1 {
		t.Fatalf("not all expected transactions were found in the template")
	}
	if aIdx > bIdx {
		t.Fatalf("parent a (index %d) must precede child b (index %d)", aIdx, bIdx)
	}
	if bIdx > cIdx {
		t.Fatalf("package a+b (child at index %d) must precede standalone c (index %d)", bIdx, cIdx)
	}
}

func TestSelectorSkipsPackageOverResourceLimit(t *testing.T) {
	big := newFakeHandle("big", 1_000_000, 100000, 0)
	big.sizeWithAncestors, big.modFeesWithAncestors = 1_000_000, 100000

	pool := newFakeMempool()
	pool.byFeerate = []collab.TxHandle{big}

	policy := NewPolicy(chainparams.CoinbaseWeightReservation+10, 0, false)
	resources := newResourceAccounting(policy)
	sel := newSelector(testLog(), policy, resources, pool)

	tmpl := &Template{}
	sel.run(tmpl, 100, time.Now(), true)

	if len(tmpl.Transactions) != 0 {
		t.Fatalf("expected the oversized package to be skipped, got %d transactions", len(tmpl.Transactions))
	}
}
