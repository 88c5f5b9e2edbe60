package weavetest

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mixbytes/crowdsale"
)

// BlockClock hands out contexts that look like the ones created for a block
// at the current time of a fake clock. Advancing the clock moves the chain
// into the future.
type BlockClock struct {
	clockwork.FakeClock
	ChainID string
	height  int64
}

// NewBlockClock returns a clock set to given time.
func NewBlockClock(now time.Time) *BlockClock {
	return &BlockClock{
		FakeClock: clockwork.NewFakeClockAt(now),
		ChainID:   "test-chain",
	}
}

// Ctx returns the context of the next block.
func (c *BlockClock) Ctx() crowdsale.Context {
	c.height++
	ctx := context.Background()
	ctx = crowdsale.WithHeight(ctx, c.height)
	ctx = crowdsale.WithChainID(ctx, c.ChainID)
	ctx = crowdsale.WithBlockTime(ctx, c.Now())
	return ctx
}
