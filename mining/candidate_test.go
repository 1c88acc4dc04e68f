// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "testing"

func TestModifiedIndexOrdersByDescendingFeerate(t *testing.T) {
	idx := newModifiedIndex()

	low := newFakeHandle("low", 1000, 100, 0)    // feerate 0.1
	high := newFakeHandle("high", 1000, 500, 0)  // feerate 0.5
	mid := newFakeHandle("mid", 1000, 300, 0)    // feerate 0.3

	for _, h := range []*fakeHandle{low, high, mid} {
		idx.insertOrUpdate(&modEntry{
			handle:                 h,
			sizeWithAncestors:      h.sizeWithAncestors,
			modFeesWithAncestors:   h.modFeesWithAncestors,
			sigOpCostWithAncestors: h.sigOpCostWithAncestors,
		})
	}

	head, _, ok := idx.head()
	if !ok {
		t.Fatal("expected a head entry")
	}
	if head != high {
		t.Fatalf("expected the highest-feerate handle first, got %v", head.Tx())
	}

	idx.remove(high)
	head, _, ok = idx.head()
	if !ok || head != mid {
		t.Fatal("expected the mid-feerate handle to become head after removing the top entry")
	}
}

func TestModifiedIndexStableTieBreak(t *testing.T) {
	idx := newModifiedIndex()

	a := newFakeHandle("a", 1000, 200, 0)
	b := newFakeHandle("b", 1000, 200, 0)

	idx.insertOrUpdate(&modEntry{handle: a, sizeWithAncestors: 1000, modFeesWithAncestors: 200})
	idx.insertOrUpdate(&modEntry{handle: b, sizeWithAncestors: 1000, modFeesWithAncestors: 200})

	want := a
	if handleID(a) > handleID(b) {
		want = b
	}

	head, _, ok := idx.head()
	if !ok || head != want {
		t.Fatal("expected the tie-break to pick the handle with the lexicographically smaller tx hash")
	}
}

func TestHandleFeerateWithAncestorsZeroSize(t *testing.T) {
	h := newFakeHandle("empty", 0, 0, 0)
	if got := handleFeerateWithAncestors(h); got != 0 {
		t.Fatalf("expected 0 feerate for a zero-size handle, got %v", got)
	}
}
