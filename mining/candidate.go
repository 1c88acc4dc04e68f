// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sort"

	"github.com/vaultchain/vaultd/collab"
)

// modEntry is the overlay entry for a candidate whose ancestor aggregates
// have been invalidated because one of its ancestors was just placed in the
// block (§3 "Modified entry", §4.2 updatePackagesForAdded).
type modEntry struct {
	handle collab.TxHandle

	sizeWithAncestors       int64
	modFeesWithAncestors    int64
	sigOpCostWithAncestors  int64
}

// feerateWithAncestors is the ordering key used by both the raw pool stream
// and the modified overlay (§2, §4.2, GLOSSARY).
func (e *modEntry) feerateWithAncestors() float64 {
	if e.sizeWithAncestors == 0 {
		return 0
	}
	return float64(e.modFeesWithAncestors) / float64(e.sizeWithAncestors)
}

func handleFeerateWithAncestors(h collab.TxHandle) float64 {
	size := h.SizeWithAncestors()
	if size == 0 {
		return 0
	}
	return float64(h.ModFeesWithAncestors()) / float64(size)
}

// modifiedIndex is a small ordered overlay keyed by (feerateWithAncestors
// desc, handle identity) as a stable tie-break (§4.2, §9 "Two-stream
// merge"). A map plus a re-sorted slice is sufficient at the block-template
// scale this runs at (tens of thousands of candidates at most); the
// interface mirrors what a balanced ordered set would expose: O(1) head
// peek after a resort, insert, and remove.
type modifiedIndex struct {
	entries map[collab.TxHandle]*modEntry
	order   []collab.TxHandle
	dirty   bool
}

func newModifiedIndex() *modifiedIndex {
	return &modifiedIndex{entries: make(map[collab.TxHandle]*modEntry)}
}

func (m *modifiedIndex) len() int {
	return len(m.entries)
}

func (m *modifiedIndex) get(h collab.TxHandle) (*modEntry, bool) {
	e, ok := m.entries[h]
	return e, ok
}

func (m *modifiedIndex) insertOrUpdate(e *modEntry) {
	if _, exists := m.entries[e.handle]; !exists {
		m.order = append(m.order, e.handle)
	}
	m.entries[e.handle] = e
	m.dirty = true
}

func (m *modifiedIndex) remove(h collab.TxHandle) {
	delete(m.entries, h)
	m.dirty = true
}

// resort re-establishes the descending feerate-with-ancestors order with a
// stable secondary key on handle identity (handleLess, the tx hash string),
// matching the ordered-set contract described in §9.
func (m *modifiedIndex) resort() {
	if !m.dirty {
		return
	}
	filtered := m.order[:0]
	for _, h := range m.order {
		if _, ok := m.entries[h]; ok {
			filtered = append(filtered, h)
		}
	}
	m.order = filtered

	order := m.order
	sort.SliceStable(order, func(i, j int) bool {
		fi := m.entries[order[i]].feerateWithAncestors()
		fj := m.entries[order[j]].feerateWithAncestors()
		if fi != fj {
			return fi > fj
		}
		return handleLess(order[i], order[j])
	})
	m.dirty = false
}

// head returns the current top-ranked handle, or false if empty.
func (m *modifiedIndex) head() (collab.TxHandle, *modEntry, bool) {
	m.resort()
	if len(m.order) == 0 {
		return nil, nil, false
	}
	h := m.order[0]
	return h, m.entries[h], true
}

// handleLess provides the stable secondary tie-break key required by §4.2:
// deterministic, reproducible iteration order for the same pool snapshot.
// Handles are compared by the hex string of their transaction's hash, which
// depends only on the transaction's contents and so is the same for the same
// pool snapshot.
func handleLess(a, b collab.TxHandle) bool {
	return handleID(a) < handleID(b)
}

func handleID(h collab.TxHandle) string {
	return h.Tx().TxHash().String()
}

