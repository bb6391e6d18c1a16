package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/market"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func stops() StopConfig {
	return StopConfig{
		HardStopATR: 0.5,
		KMin:        2.2,
		KSpan:       1.4,
		BaseVol:     0.02,
		VolSlope:    50,
		KDefault:    2.8,
	}
}

func TestTrailK(t *testing.T) {
	cfg := stops()

	// At or below base volatility the multiple floors at KMin.
	assert.InDelta(t, 2.2, cfg.TrailK(0.02), 1e-9)
	assert.InDelta(t, 2.2, cfg.TrailK(0.005), 1e-9)

	// Linear in between: 3% vol adds (0.03-0.02)*50 = 0.5.
	assert.InDelta(t, 2.7, cfg.TrailK(0.03), 1e-9)

	// Caps at KMin+KSpan for very volatile names.
	assert.InDelta(t, 3.6, cfg.TrailK(0.10), 1e-9)
}

func TestHardStopPrice(t *testing.T) {
	assert.InDelta(t, 97.0, stops().HardStopPrice(98, 2), 1e-9)
}

func TestOpenSeedsRatchets(t *testing.T) {
	p := Open("005930", "Samsung Electronics", 10, 100, day(0), 95, 0.5)

	assert.Equal(t, 100.0, p.Peak)
	assert.Equal(t, 95.0, p.HardStop)
	assert.Equal(t, 95.0, p.TrailStop, "trail starts at the structural stop")
	assert.Equal(t, 100.0, p.LastClose)
	assert.Equal(t, 0, p.DownStreak)
}

func TestUpdateRatchetsOnlyUp(t *testing.T) {
	cfg := stops()
	p := Open("005930", "", 10, 100, day(0), 95, 0)

	// Strong up day: vol ratio 2/106 ~ 1.9%, so k = KMin = 2.2 and the
	// trail lands at 108 - 4.4 = 103.6.
	p.Update(market.Bar{Date: day(1), Open: 104, High: 108, Low: 103, Close: 106, Volume: 1000},
		indicators.Some(2), indicators.Some(101), cfg)
	assert.Equal(t, 108.0, p.Peak)
	assert.InDelta(t, 100.0, p.HardStop, 1e-9) // 101 - 0.5*2
	assert.InDelta(t, 103.6, p.TrailStop, 1e-9)
	assert.Equal(t, 106.0, p.LastClose)

	hard, trail, peak := p.HardStop, p.TrailStop, p.Peak

	// Weak day with a lower swing low: nothing may loosen.
	p.Update(market.Bar{Date: day(2), Open: 105, High: 105, Low: 101, Close: 102, Volume: 1000},
		indicators.Some(3), indicators.Some(98), cfg)
	assert.Equal(t, peak, p.Peak)
	assert.Equal(t, hard, p.HardStop)
	assert.Equal(t, trail, p.TrailStop)
	assert.Equal(t, 102.0, p.LastClose)
}

func TestUpdateKeepsStopsWithoutIndicators(t *testing.T) {
	cfg := stops()
	p := Open("005930", "", 10, 100, day(0), 95, 0)

	p.Update(market.Bar{Date: day(1), Open: 100, High: 120, Low: 100, Close: 118, Volume: 1000},
		indicators.None(), indicators.None(), cfg)

	assert.Equal(t, 120.0, p.Peak, "peak still tracks the high")
	assert.Equal(t, 95.0, p.HardStop)
	assert.Equal(t, 95.0, p.TrailStop)
}

func TestObserveScoreStreak(t *testing.T) {
	p := Open("005930", "", 10, 100, day(0), 95, 0.50)

	p.ObserveScore(0.40)
	assert.Equal(t, 1, p.DownStreak)
	p.ObserveScore(0.30)
	assert.Equal(t, 2, p.DownStreak)

	// Equal or rising score resets.
	p.ObserveScore(0.30)
	assert.Equal(t, 0, p.DownStreak)
	p.ObserveScore(0.20)
	assert.Equal(t, 1, p.DownStreak)
	p.ObserveScore(0.90)
	assert.Equal(t, 0, p.DownStreak)
}

func TestCheckExitPriority(t *testing.T) {
	p := Open("005930", "", 10, 100, day(0), 95, 0)
	p.HardStop = 95
	p.TrailStop = 97
	p.DownStreak = 99

	// Low pierces both stops and the decay streak is exhausted and the
	// regime is off: the hard stop still wins, at the stop price.
	bar := market.Bar{Date: day(5), Open: 96, High: 98, Low: 94, Close: 94.5, Volume: 1000}
	exit, ok := p.CheckExit(bar, false, 15)
	require.True(t, ok)
	assert.Equal(t, ExitHardStop, exit.Reason)
	assert.Equal(t, 95.0, exit.Price)

	// Only the trail is hit.
	bar.Low = 96.5
	exit, ok = p.CheckExit(bar, true, 0)
	require.True(t, ok)
	assert.Equal(t, ExitTrailStop, exit.Reason)
	assert.Equal(t, 97.0, exit.Price)

	// No stop hit, streak exhausted: decay exit at the open.
	bar.Low = 98
	bar.High = 99
	exit, ok = p.CheckExit(bar, true, 15)
	require.True(t, ok)
	assert.Equal(t, ExitRerating, exit.Reason)
	assert.Equal(t, 96.0, exit.Price)

	// Decay disabled, regime off: risk-off exit at the open.
	exit, ok = p.CheckExit(bar, false, 0)
	require.True(t, ok)
	assert.Equal(t, ExitRiskOff, exit.Reason)
	assert.Equal(t, 96.0, exit.Price)

	// Nothing fires.
	p.DownStreak = 0
	_, ok = p.CheckExit(bar, true, 15)
	assert.False(t, ok)
}

func TestMarketValue(t *testing.T) {
	p := Open("005930", "", 7, 100, day(0), 95, 0)
	assert.Equal(t, 735.0, p.MarketValue(105))
}
