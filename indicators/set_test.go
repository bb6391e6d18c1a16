package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khkim/krxscreen/market"
)

func smallConfig() Config {
	return Config{
		FastEMA:    3,
		ShortMA:    3,
		LongMA:     5,
		TrendMA:    5,
		TrendSlope: 2,
		TrendCross: 4,
		ATR:        3,
		SwingLow:   3,
		Breakout:   3,
		High:       4,
		Momentum:   3,
		RS:         3,
		TurnShort:  2,
		TurnLong:   4,
	}
}

func risingSeries(t *testing.T, code string, n int, start, step float64) *market.Series {
	t.Helper()
	bars := make([]market.Bar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = market.Bar{Date: day(i), Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 1000}
	}
	s, err := market.NewSeries(code, "", bars)
	require.NoError(t, err)
	return s
}

func TestComputeAlignsColumns(t *testing.T) {
	s := risingSeries(t, "005930", 20, 100, 1)
	index := risingSeries(t, "KS11", 20, 2000, 1)

	set := Compute(s, index, smallConfig())

	assert.Len(t, set.EMAFast, 20)
	assert.Len(t, set.ATR, 20)
	assert.Len(t, set.RS, 20)
	assert.Len(t, set.Breakout, 20)

	// Early bars stay undefined for every lookback column.
	assert.False(t, set.SMALong[3].Defined())
	assert.True(t, set.SMALong[4].Defined())
	assert.False(t, set.TurnLong[2].Defined())
	assert.True(t, set.TurnLong[3].Defined())
}

func TestRelativeStrengthAlignment(t *testing.T) {
	// Stock gains 1% per day against a flat index: RS equals the raw
	// 3-day stock return.
	n := 10
	bars := make([]market.Bar, n)
	ibars := make([]market.Bar, n)
	for i := range bars {
		c := 100 * pow(1.01, i)
		bars[i] = market.Bar{Date: day(i), Open: c, High: c, Low: c, Close: c, Volume: 100}
		ibars[i] = market.Bar{Date: day(i), Open: 2000, High: 2000, Low: 2000, Close: 2000, Volume: 0}
	}
	s, err := market.NewSeries("005930", "", bars)
	require.NoError(t, err)
	index, err := market.NewSeries("KS11", "", ibars)
	require.NoError(t, err)

	set := Compute(s, index, smallConfig())

	rs, ok := set.RS[5].Get()
	require.True(t, ok)
	assert.InDelta(t, pow(1.01, 3)-1, rs, 1e-9)
}

func TestRelativeStrengthUndefinedWhenIndexMissingDate(t *testing.T) {
	s := risingSeries(t, "005930", 10, 100, 1)

	// Index skips the stock's later dates entirely.
	ibars := make([]market.Bar, 4)
	for i := range ibars {
		ibars[i] = market.Bar{Date: day(i), Open: 2000, High: 2000, Low: 2000, Close: 2000}
	}
	index, err := market.NewSeries("KS11", "", ibars)
	require.NoError(t, err)

	set := Compute(s, index, smallConfig())
	assert.False(t, set.RS[8].Defined(), "date absent from index must stay undefined")
}

func TestRelativeStrengthNilIndex(t *testing.T) {
	s := risingSeries(t, "005930", 10, 100, 1)
	set := Compute(s, nil, smallConfig())
	for i := range set.RS {
		assert.False(t, set.RS[i].Defined())
	}
}

func TestTrendInit(t *testing.T) {
	// Flat base below the trend MA, then a sustained breakout: the flag
	// fires shortly after the cross while the MA is rising.
	n := 20
	bars := make([]market.Bar, n)
	for i := range bars {
		c := 100.0
		if i >= 10 {
			c = 100 + float64(i-9)*5
		}
		bars[i] = market.Bar{Date: day(i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
	}
	s, err := market.NewSeries("005930", "", bars)
	require.NoError(t, err)

	set := Compute(s, nil, smallConfig())

	assert.False(t, set.TrendInit[8], "no flag while flat")
	assert.True(t, set.TrendInit[12], "flag after cross with rising MA")
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
