// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import "sync"

// CancelToken is the cooperative cancellation signal both driver loops poll
// at well-defined points: loop head, inside the PoW inner nonce loop, and
// between template builds (§5 "Cancellation"). It has no relation to
// context.Context since neither driver ever needs a deadline or a value,
// only a one-shot interrupt a thread-group owner can trigger from outside.
type CancelToken struct {
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel requests cancellation. Safe to call more than once or concurrently.
func (c *CancelToken) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// Cancelled reports whether Cancel has been called.
func (c *CancelToken) Cancelled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that closes when Cancel is called, for select-based
// polling alongside a sleep timer.
func (c *CancelToken) Done() <-chan struct{} {
	return c.done
}
