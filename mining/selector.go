// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sort"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/vaultchain/vaultd/chainparams"
	"github.com/vaultchain/vaultd/collab"
)

// consecutiveFailureTerminationThreshold, together with a headroom of
// chainparams.CoinbaseWeightReservation below BlockMaxWeight, implements the
// early-exit rule of §4.2 step 4: once failures pile up and the block is
// already close to full, stop scanning rather than walk the rest of a large
// pool for no benefit.
const consecutiveFailureTerminationThreshold = 1000

// selector runs the main package-selection loop of §4.2 against a single
// mempool snapshot. It owns no state beyond a single createTemplate call.
type selector struct {
	log    btclog.Logger
	policy *Policy

	resources *resourceAccounting

	mempool collab.Mempool

	failedSet map[collab.TxHandle]struct{}
	overlay   *modifiedIndex

	// rawCursor walks the raw byAncestorScore stream.
	raw       []collab.TxHandle
	rawCursor int
}

func newSelector(log btclog.Logger, policy *Policy, resources *resourceAccounting, mempool collab.Mempool) *selector {
	return &selector{
		log:       log,
		policy:    policy,
		resources: resources,
		mempool:   mempool,
		failedSet: make(map[collab.TxHandle]struct{}),
		overlay:   newModifiedIndex(),
		raw:       mempool.ByAncestorFeerate(),
	}
}

// seed runs updatePackagesForAdded over a pre-populated inclusion set (e.g.
// a coinstake already placed at index 1), per §4.2 "Bootstrap".
func (s *selector) seed(preIncluded []collab.TxHandle) {
	s.updatePackagesForAdded(preIncluded)
}

// run drives the main loop of §4.2 until both streams are exhausted or
// early termination fires, appending every accepted package to t via the
// resource accounting component.
func (s *selector) run(t *Template, height uint64, locktimeCutoff time.Time, wantWitness bool) {
	consecutiveFailures := 0

	for {
		s.advanceRawCursor()

		candidate, usingModified, pkgSize, pkgFees, pkgSigOps, ok := s.selectCandidate()
		if !ok {
			break
		}

		if s.policy.MinFeerateGate && pkgSize > 0 && (pkgFees*1000)/(pkgSize*chainparams.WitnessScaleFactor) < s.policy.BlockMinTxFee {
			if usingModified {
				s.overlay.remove(candidate)
			}
			s.failedSet[candidate] = struct{}{}
			consecutiveFailures++
			continue
		}

		if !s.resources.testPackage(pkgSize, pkgSigOps) {
			if usingModified {
				s.overlay.remove(candidate)
			}
			s.failedSet[candidate] = struct{}{}
			consecutiveFailures++

			if consecutiveFailures > consecutiveFailureTerminationThreshold &&
				s.resources.blockWeight > s.policy.BlockMaxWeight-chainparams.CoinbaseWeightReservation {
				s.log.Debugf("terminating package selection after %d consecutive "+
					"failures with block weight %d", consecutiveFailures, s.resources.blockWeight)
				break
			}
			continue
		}

		pkg, err := s.mempool.AncestorSet(candidate, collab.AncestorLimits{})
		if err != nil {
			if usingModified {
				s.overlay.remove(candidate)
			}
			s.failedSet[candidate] = struct{}{}
			consecutiveFailures++
			continue
		}
		pkg = s.dropAlreadyIncluded(pkg)

		// §4.2 step 6: a non-final package is treated like any other
		// failure for the consecutive-failure termination count, it just
		// never reaches the termination check itself (that check only
		// lives in the resource-accounting failure branch above).
		if !testFinalityHandles(pkg, height, locktimeCutoff, wantWitness) {
			if usingModified {
				s.overlay.remove(candidate)
			}
			s.failedSet[candidate] = struct{}{}
			consecutiveFailures++
			continue
		}

		sort.Slice(pkg, func(i, j int) bool {
			return ancestorCount(pkg[i]) < ancestorCount(pkg[j])
		})

		for _, handle := range pkg {
			fee := handle.ModifiedFee()
			s.resources.add(t, handle, fee)
			s.overlay.remove(handle)
		}
		consecutiveFailures = 0

		if s.policy.PrintPriority {
			s.log.Debugf("accepted package of %d tx at feerate-with-ancestors=%.6f",
				len(pkg), handleFeerateWithAncestors(candidate))
		}

		s.updatePackagesForAdded(pkg)
	}
}

// advanceRawCursor skips any handle already included, already in the
// overlay, or already marked failed (§4.2 step 1).
func (s *selector) advanceRawCursor() {
	for s.rawCursor < len(s.raw) {
		h := s.raw[s.rawCursor]
		if s.resources.included(h) {
			s.rawCursor++
			continue
		}
		if _, inOverlay := s.overlay.get(h); inOverlay {
			s.rawCursor++
			continue
		}
		if _, failed := s.failedSet[h]; failed {
			s.rawCursor++
			continue
		}
		break
	}
}

// selectCandidate picks the next candidate per §4.2 step 2-3.
func (s *selector) selectCandidate() (handle collab.TxHandle, usingModified bool, size, fees, sigOps int64, ok bool) {
	rawExhausted := s.rawCursor >= len(s.raw)

	overlayHandle, overlayEntry, overlayOK := s.overlay.head()

	if rawExhausted {
		if !overlayOK {
			return nil, false, 0, 0, 0, false
		}
		return overlayHandle, true, overlayEntry.sizeWithAncestors, overlayEntry.modFeesWithAncestors, overlayEntry.sigOpCostWithAncestors, true
	}

	rawHandle := s.raw[s.rawCursor]
	if overlayOK && handleFeerateWithAncestors(rawHandle) < overlayEntry.feerateWithAncestors() {
		return overlayHandle, true, overlayEntry.sizeWithAncestors, overlayEntry.modFeesWithAncestors, overlayEntry.sigOpCostWithAncestors, true
	}

	s.rawCursor++
	return rawHandle, false, rawHandle.SizeWithAncestors(), rawHandle.ModFeesWithAncestors(), rawHandle.SigOpCostWithAncestors(), true
}

func (s *selector) dropAlreadyIncluded(pkg []collab.TxHandle) []collab.TxHandle {
	out := pkg[:0]
	for _, h := range pkg {
		if !s.resources.included(h) {
			out = append(out, h)
		}
	}
	return out
}

// updatePackagesForAdded implements §4.2's descendant-overlay maintenance:
// for each newly added handle, subtract its contribution from every
// in-mempool descendant's ancestor aggregates.
func (s *selector) updatePackagesForAdded(added []collab.TxHandle) int {
	addedSet := make(map[collab.TxHandle]struct{}, len(added))
	for _, a := range added {
		addedSet[a] = struct{}{}
	}

	updated := 0
	for _, a := range added {
		for _, d := range s.mempool.Descendants(a) {
			if _, isAdded := addedSet[d]; isAdded {
				continue
			}

			if existing, ok := s.overlay.get(d); ok {
				existing.sizeWithAncestors -= a.Size()
				existing.modFeesWithAncestors -= a.ModifiedFee()
				existing.sigOpCostWithAncestors -= a.SigOpCost()
				s.overlay.insertOrUpdate(existing)
			} else {
				s.overlay.insertOrUpdate(&modEntry{
					handle:                 d,
					sizeWithAncestors:      d.SizeWithAncestors() - a.Size(),
					modFeesWithAncestors:   d.ModFeesWithAncestors() - a.ModifiedFee(),
					sigOpCostWithAncestors: d.SigOpCostWithAncestors() - a.SigOpCost(),
				})
			}
			updated++
		}
	}
	return updated
}

// testFinalityHandles adapts testFinality (§4.1) to operate over handles.
func testFinalityHandles(pkg []collab.TxHandle, height uint64, cutoff time.Time, wantWitness bool) bool {
	for _, h := range pkg {
		tx := h.Tx()
		if !isFinalTx(tx, height, cutoff) {
			return false
		}
		if !wantWitness && tx.HasWitness() {
			return false
		}
	}
	return true
}

// ancestorCount is used as the dependency-safe linearization key of §4.2
// step 7: sort the committed package by ancestor count ascending.
func ancestorCount(h collab.TxHandle) int64 {
	return h.AncestorCount()
}
