package weavetest

import (
	"testing"
	"time"

	"github.com/mixbytes/crowdsale"
	"github.com/stretchr/testify/assert"
)

func TestSequenceID(t *testing.T) {
	numToEnc := map[uint64][]byte{
		1:      {0, 0, 0, 0, 0, 0, 0, 1},
		123:    {0, 0, 0, 0, 0, 0, 0, 123},
		123123: {0, 0, 0, 0, 0, 1, 224, 243},
	}
	for id, want := range numToEnc {
		assert.Equal(t, want, SequenceID(id))
	}
}

func TestBlockClock(t *testing.T) {
	start := time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)
	clock := NewBlockClock(start)

	first := clock.Ctx()
	clock.Advance(2 * time.Hour)
	second := clock.Ctx()

	assert.Equal(t, crowdsale.AsUnixTime(start), crowdsale.MustBlockTime(first))
	assert.Equal(t, crowdsale.AsUnixTime(start.Add(2*time.Hour)), crowdsale.MustBlockTime(second))
	h, _ := crowdsale.GetHeight(second)
	assert.Equal(t, int64(2), h)
}
