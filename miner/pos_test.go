// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miner

import (
	"testing"
	"time"

	"github.com/vaultchain/vaultd/collab"
	"github.com/vaultchain/vaultd/util/chainhash"
	"github.com/vaultchain/vaultd/wire"
)

type posFakeChainIndex struct{ timestamp time.Time }

func (i *posFakeChainIndex) Height() uint64              { return 0 }
func (i *posFakeChainIndex) Hash() chainhash.Hash         { return chainhash.Hash{} }
func (i *posFakeChainIndex) Timestamp() time.Time         { return i.timestamp }
func (i *posFakeChainIndex) MedianTimePast() time.Time    { return i.timestamp }
func (i *posFakeChainIndex) Bits() uint32                 { return 0 }
func (i *posFakeChainIndex) NetworkRewardReserve() int64  { return 0 }

var _ collab.ChainIndex = (*posFakeChainIndex)(nil)

type posFakeChain struct {
	tip *posFakeChainIndex
}

func (c *posFakeChain) Tip() collab.ChainIndex                          { return c.tip }
func (c *posFakeChain) TipHeight() uint64                               { return 0 }
func (c *posFakeChain) TipHash() chainhash.Hash                         { return chainhash.Hash{} }
func (c *posFakeChain) TipTime() time.Time                              { return c.tip.timestamp }
func (c *posFakeChain) BestHeaderTime() time.Time                       { return c.tip.timestamp }
func (c *posFakeChain) PreviousIndex(uint64) (collab.ChainIndex, error) { return nil, errIdleChain }
func (c *posFakeChain) IsSerialConfirmed(chainhash.Hash) (bool, uint64)  { return false, 0 }
func (c *posFakeChain) IsPubcoinConfirmed(chainhash.Hash) (bool, uint64) { return false, 0 }
func (c *posFakeChain) IsInitialBlockDownload() bool                    { return false }

var _ collab.Chain = (*posFakeChain)(nil)

type posFakeWallet struct {
	locked               bool
	unlockedForStakingOnly bool
	mintable             bool
}

func (w *posFakeWallet) CreateCoinStake(collab.ChainIndex, uint32) (*wire.MsgTx, time.Time, error) {
	panic("not used by these tests")
}
func (w *posFakeWallet) MintableCoins() bool            { return w.mintable }
func (w *posFakeWallet) IsStakingEnabled() bool         { return true }
func (w *posFakeWallet) IsLocked() bool                 { return w.locked }
func (w *posFakeWallet) IsUnlockedForStakingOnly() bool { return w.unlockedForStakingOnly }
func (w *posFakeWallet) GetZerocoinKey(chainhash.Hash) ([]byte, error) {
	return nil, nil
}
func (w *posFakeWallet) Sign(chainhash.Hash, []byte) ([]byte, error) { return nil, nil }
func (w *posFakeWallet) ReservePayoutScript() (collab.ReservedScript, error) {
	return nil, nil
}

var _ collab.Wallet = (*posFakeWallet)(nil)

type fixedTimeSource struct{ now time.Time }

func (t *fixedTimeSource) AdjustedNetworkTime() time.Time { return t.now }
func (t *fixedTimeSource) WallClockSeconds() int64        { return t.now.Unix() }
func (t *fixedTimeSource) WallClockMicros() int64         { return t.now.UnixNano() / 1000 }
func (t *fixedTimeSource) Sleep(time.Duration)             {}
func (t *fixedTimeSource) RandInt(n int) int               { return 0 }

var _ collab.TimeSource = (*fixedTimeSource)(nil)

func TestPoSDriverWaitForStakingReadyReturnsImmediatelyWhenClear(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := &PoSDriver{
		Chain:  &posFakeChain{tip: &posFakeChainIndex{timestamp: now}},
		Wallet: &posFakeWallet{mintable: true},
		Time:   &fixedTimeSource{now: now},
	}

	cancel := NewCancelToken()
	if !d.waitForStakingReady(cancel) {
		t.Fatal("expected waitForStakingReady to return true when every gate is already clear")
	}
}

func TestPoSDriverWaitForStakingReadyUnblocksOnCancel(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := &PoSDriver{
		Chain:  &posFakeChain{tip: &posFakeChainIndex{timestamp: now}},
		Wallet: &posFakeWallet{locked: true, mintable: true}, // locked: never clears
		Time:   &fixedTimeSource{now: now},
	}

	cancel := NewCancelToken()
	done := make(chan bool, 1)
	go func() { done <- d.waitForStakingReady(cancel) }()

	cancel.Cancel()

	select {
	case ready := <-done:
		if ready {
			t.Fatal("expected waitForStakingReady to report false after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("waitForStakingReady did not observe cancellation within the timeout")
	}
}

func TestPoSDriverMintableCoinsCachedReflectsWalletUntilRecheck(t *testing.T) {
	wallet := &posFakeWallet{mintable: true}
	d := &PoSDriver{Wallet: wallet, Time: &fixedTimeSource{now: time.Unix(1_700_000_000, 0)}}

	if !d.mintableCoinsCached() {
		t.Fatal("expected the first call to reflect the wallet's current answer (true)")
	}

	// Flip the underlying wallet state; the cached answer should not move
	// until the recheck interval elapses (§4.4 caching rule).
	wallet.mintable = false
	if !d.mintableCoinsCached() {
		t.Fatal("expected the cached answer to still be true before the recheck interval elapses")
	}
}

func TestPoSDriverShouldSkipForScheduleFalseForUnseenTip(t *testing.T) {
	d := &PoSDriver{
		Time:       &fixedTimeSource{now: time.Unix(1_700_000_000, 0)},
		lastHashed: make(map[chainhash.Hash]time.Time),
	}
	tip := chainhash.DoubleHashH([]byte("tip"))

	if d.shouldSkipForSchedule(tip) {
		t.Fatal("a tip never hashed before should never be skipped")
	}
}

func TestPoSDriverShouldSkipForScheduleTrueRightAfterHashing(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := &PoSDriver{
		Time:       &fixedTimeSource{now: now},
		lastHashed: make(map[chainhash.Hash]time.Time),
	}
	tip := chainhash.DoubleHashH([]byte("tip"))
	d.markHashed(tip)

	if !d.shouldSkipForSchedule(tip) {
		t.Fatal("a tip hashed moments ago should be skipped until the future-time window advances")
	}
}
