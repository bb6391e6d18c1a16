// Package risk owns open-position state: peak tracking, the two stop
// ratchets, the re-rating decay counter, the exit waterfall, and
// fractional-risk sizing.
package risk

import (
	"time"

	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/market"
)

// Position is one open holding. Peak, HardStop and TrailStop only ever
// move up once set; Update maintains those ratchets.
type Position struct {
	Code       string
	Name       string
	Shares     int64
	EntryPrice float64
	EntryDate  time.Time

	Peak      float64 // highest high since entry
	HardStop  float64 // structural stop, swing low anchored
	TrailStop float64 // ATR trailing stop off the peak
	LastClose float64 // most recent close seen, for marking halted days

	prevScore  float64
	hasScore   bool
	DownStreak int // consecutive days of declining score
}

// StopConfig parameterizes the stop formulas.
type StopConfig struct {
	// HardStopATR is subtracted (times ATR) from the swing low to place
	// the structural stop.
	HardStopATR float64 `json:"hard_stop_atr" yaml:"hard_stop_atr"` // 0.5

	// Trailing k adapts to volatility: k = KMin + clamp((ATR/close -
	// BaseVol) * VolSlope, 0, KSpan). Quiet names trail loose, volatile
	// names trail tight within [KMin, KMin+KSpan].
	KMin     float64 `json:"k_min" yaml:"k_min"`         // 2.2
	KSpan    float64 `json:"k_span" yaml:"k_span"`       // 1.4
	BaseVol  float64 `json:"base_vol" yaml:"base_vol"`   // 0.02
	VolSlope float64 `json:"vol_slope" yaml:"vol_slope"` // 50
	KDefault float64 `json:"k_default" yaml:"k_default"` // 2.8, when ATR is unusable
}

// TrailK returns the volatility-adaptive trailing multiple for the
// given ATR/close ratio.
func (c StopConfig) TrailK(volRatio float64) float64 {
	k := c.KMin + (volRatio-c.BaseVol)*c.VolSlope
	if k < c.KMin {
		k = c.KMin
	}
	if k > c.KMin+c.KSpan {
		k = c.KMin + c.KSpan
	}
	return k
}

// HardStopPrice places the structural stop under the swing low.
func (c StopConfig) HardStopPrice(swingLow, atr float64) float64 {
	return swingLow - c.HardStopATR*atr
}

// Open creates a position entered at price on date, with both stops
// seeded at the structural stop and the peak at the entry price.
func Open(code, name string, shares int64, price float64, date time.Time, hardStop float64, score float64) *Position {
	return &Position{
		Code:       code,
		Name:       name,
		Shares:     shares,
		EntryPrice: price,
		EntryDate:  date,
		Peak:       price,
		HardStop:   hardStop,
		TrailStop:  hardStop,
		LastClose:  price,
		prevScore:  score,
		hasScore:   true,
	}
}

// Update advances the position by one day: peak tracking and both stop
// ratchets. Stops are recomputed from today's indicators but only ever
// tighten; an undefined swing low or ATR leaves the stored stop as is.
func (p *Position) Update(bar market.Bar, atr, swingLow indicators.Value, cfg StopConfig) {
	if bar.High > p.Peak {
		p.Peak = bar.High
	}
	p.LastClose = bar.Close

	a, haveATR := atr.Get()
	if haveATR && a <= 0 {
		haveATR = false
	}

	if sl, ok := swingLow.Get(); ok && haveATR {
		if hs := cfg.HardStopPrice(sl, a); hs > p.HardStop {
			p.HardStop = hs
		}
	}

	if haveATR {
		k := cfg.KDefault
		if bar.Close > 0 {
			k = cfg.TrailK(a / bar.Close)
		}
		if ts := p.Peak - k*a; ts > p.TrailStop {
			p.TrailStop = ts
		}
	}
}

// ObserveScore feeds today's candidate score into the decay counter: a
// decline extends the streak, anything else resets it. Days without a
// score leave the streak untouched.
func (p *Position) ObserveScore(score float64) {
	if p.hasScore && score < p.prevScore {
		p.DownStreak++
	} else {
		p.DownStreak = 0
	}
	p.prevScore = score
	p.hasScore = true
}

// MarketValue marks the position at the given price.
func (p *Position) MarketValue(price float64) float64 {
	return float64(p.Shares) * price
}
