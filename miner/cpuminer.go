// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"sync"

	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/mining"
)

// CPUMiner owns the pool of PoW mining threads running against a single
// Assembler and implements the §5 "Thread-group lifecycle" rule: setting
// generation to N threads interrupts and joins whatever is currently
// running, then spawns N fresh threads sharing one extra-nonce counter;
// threads=0 or generate=false means interrupt-and-join only. Every thread
// reserves its own payout script and extra-nonce base per attempt but all
// of them observe the same tip-reset counter (§5 "Nonce counter guard").
type CPUMiner struct {
	assembler     *mining.Assembler
	chain         collab.Chain
	consensus     collab.Consensus
	time          collab.TimeSource
	policy        *mining.Policy
	reserveScript func() (collab.ReservedScript, error)

	counter *extraNonceCounter

	mu          sync.Mutex
	cancels     []*CancelToken
	groupCancel *CancelToken
	wg          sync.WaitGroup
}

// NewCPUMiner constructs a CPUMiner with no threads running.
func NewCPUMiner(
	a *mining.Assembler,
	chain collab.Chain,
	consensus collab.Consensus,
	ts collab.TimeSource,
	policy *mining.Policy,
	reserveScript func() (collab.ReservedScript, error),
) *CPUMiner {
	return &CPUMiner{
		assembler:     a,
		chain:         chain,
		consensus:     consensus,
		time:          ts,
		policy:        policy,
		reserveScript: reserveScript,
		counter:       newExtraNonceCounter(),
	}
}

// SetGenerate implements §5's thread-group lifecycle: whatever threads are
// currently running are interrupted and joined first, unconditionally; if
// threads is positive, that many fresh PoWDrivers are then spawned against
// the same shared extra-nonce counter. Passing threads<=0 therefore stops
// generation entirely, matching "threads=0 or generate=false means
// interrupt-and-join only".
func (m *CPUMiner) SetGenerate(threads int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	if threads <= 0 {
		return
	}

	m.groupCancel = NewCancelToken()
	go m.counter.logHashRate(m.groupCancel)

	for i := 0; i < threads; i++ {
		cancel := NewCancelToken()
		m.cancels = append(m.cancels, cancel)

		driver := NewPoWDriver(m.assembler, m.chain, m.consensus, m.time, m.policy, m.counter)
		m.wg.Add(1)
		spawn("cpuminer", func() {
			defer m.wg.Done()
			driver.Run(cancel, m.reserveScript)
		})
	}
}

// Stop interrupts and joins every running thread without starting new ones.
func (m *CPUMiner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

// NumThreads reports how many PoW threads are currently running.
func (m *CPUMiner) NumThreads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}

func (m *CPUMiner) stopLocked() {
	if m.groupCancel != nil {
		m.groupCancel.Cancel()
		m.groupCancel = nil
	}
	for _, c := range m.cancels {
		c.Cancel()
	}
	m.wg.Wait()
	m.cancels = nil
}
