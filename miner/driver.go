// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package miner implements the two driver flavors of §4.4: a PoW driver
// that searches for a winning nonce against freshly built templates, and a
// PoS driver that waits out the staking-hash schedule before submitting a
// signed block. This file holds the shared goroutine-spawning and
// extra-nonce counter scaffolding; the cancellation token is in cancel.go.
package miner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/vaultchain/vaultd/logger"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/util/panics"
)

var log btclog.Logger

func init() {
	l, _ := logger.Get(logger.SubsystemTags.MINR)
	log = l
}

var spawnGoroutine = panics.GoroutineWrapperFunc(log)

// spawn runs fn as a panic-recovering goroutine. Every driver thread is
// launched this way so a crash in one thread is logged and brings the
// process down cleanly rather than silently vanishing (§5 "Thread-group
// lifecycle").
func spawn(name string, fn func()) {
	spawnGoroutine(func() {
		log.Debugf("%s: started", name)
		fn()
	})
}

// extraNonceCounter is the cross-thread PoW extra-nonce base counter (§4.4,
// §5 "Nonce counter guard", §9 "Shared nonce state"). Reservations are
// strictly increasing for the lifetime of a single observed tip hash, and
// the counter resets to zero the moment the tip changes, matching the
// boundary behavior in §8 ("tip change during PoW inner loop").
type extraNonceCounter struct {
	mu      sync.Mutex
	lastTip chainhash.Hash
	haveTip bool
	next    uint64

	hashesTried uint64
}

func newExtraNonceCounter() *extraNonceCounter {
	return &extraNonceCounter{}
}

// reserve returns the next extra-nonce value for tip, resetting the counter
// first if tip differs from the last-observed tip.
func (c *extraNonceCounter) reserve(tip chainhash.Hash) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.haveTip || tip != c.lastTip {
		c.lastTip = tip
		c.haveTip = true
		c.next = 0
	}

	v := c.next
	c.next++
	return v
}

func (c *extraNonceCounter) addHashesTried(n uint64) {
	atomic.AddUint64(&c.hashesTried, n)
}

// logHashRate periodically reports the aggregate hash rate across every PoW
// thread sharing this counter, matching the teacher's
// cmd/kaspaminer/mineloop.go logHashRate texture.
func (c *extraNonceCounter) logHashRate(cancel *CancelToken) {
	const interval = 10 * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastCheck := time.Now()
	for {
		select {
		case <-cancel.Done():
			return
		case now := <-ticker.C:
			tried := atomic.SwapUint64(&c.hashesTried, 0)
			elapsed := now.Sub(lastCheck).Seconds()
			lastCheck = now
			if elapsed <= 0 {
				continue
			}
			log.Infof("current hash rate is %.2f Khash/s", float64(tried)/1000.0/elapsed)
		}
	}
}
