package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khkim/krxscreen/market"
)

func barsFromLows(lows ...float64) []market.Bar {
	bars := make([]market.Bar, len(lows))
	for i, lo := range lows {
		bars[i] = market.Bar{Date: day(i), Open: lo + 1, High: lo + 3, Low: lo, Close: lo + 2, Volume: 100}
	}
	return bars
}

func TestSwingLowExcludesToday(t *testing.T) {
	// Today's low (1) is the lowest of all, but the swing low must come
	// from prior days only.
	bars := barsFromLows(10, 9, 8, 7, 1)
	col := SwingLow(bars, 3)

	assert.False(t, col[2].Defined())

	v, ok := col[4].Get()
	require.True(t, ok)
	assert.InDelta(t, 7.0, v, 1e-9, "swing low must ignore today's bar")
}

func TestSwingLowWarmup(t *testing.T) {
	bars := barsFromLows(5, 4, 3, 2, 1, 6)
	col := SwingLow(bars, 5)

	for i := 0; i < 5; i++ {
		assert.False(t, col[i].Defined(), "index %d", i)
	}
	v, ok := col[5].Get()
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestRollingHighIncludesToday(t *testing.T) {
	bars := barsFromLows(10, 20, 15, 30)
	col := RollingHigh(bars, 2)

	v, ok := col[3].Get()
	require.True(t, ok)
	assert.InDelta(t, 33.0, v, 1e-9) // today's high 30+3
}

func TestBreakout(t *testing.T) {
	bars := barsFromLows(10, 10, 10, 10)
	// Prior highs are all 13; close of 12 is no breakout.
	flags := Breakout(bars, 3)
	assert.False(t, flags[3])

	bars[3].Close = 14
	bars[3].High = 15
	flags = Breakout(bars, 3)
	assert.True(t, flags[3])

	// Never flagged before the lookback is satisfied.
	assert.False(t, flags[2])
}
