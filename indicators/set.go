package indicators

import "github.com/khkim/krxscreen/market"

// Config holds the lookback windows used by Compute. Zero values are
// not defaulted here; config.Default wires the strategy defaults.
type Config struct {
	FastEMA    int `json:"fast_ema" yaml:"fast_ema"`       // 20
	ShortMA    int `json:"short_ma" yaml:"short_ma"`       // 20
	LongMA     int `json:"long_ma" yaml:"long_ma"`         // 60
	TrendMA    int `json:"trend_ma" yaml:"trend_ma"`       // 120
	TrendSlope int `json:"trend_slope" yaml:"trend_slope"` // 5
	TrendCross int `json:"trend_cross" yaml:"trend_cross"` // 35
	ATR        int `json:"atr" yaml:"atr"`                 // 14
	SwingLow   int `json:"swing_low" yaml:"swing_low"`     // 10
	Breakout   int `json:"breakout" yaml:"breakout"`       // 10, at most SwingLow
	High       int `json:"high" yaml:"high"`               // 60
	Momentum   int `json:"momentum" yaml:"momentum"`       // 20
	RS         int `json:"rs" yaml:"rs"`                   // 60
	TurnShort  int `json:"turn_short" yaml:"turn_short"`   // 20
	TurnLong   int `json:"turn_long" yaml:"turn_long"`     // 60
}

// Set holds the precomputed indicator columns for one series, each
// aligned index-for-index with the series bars.
type Set struct {
	EMAFast   []Value
	SMAShort  []Value
	SMALong   []Value
	TrendMA   []Value
	ATR       []Value
	SwingLow  []Value
	High      []Value
	Momentum  []Value
	RS        []Value
	TurnShort []Value
	TurnLong  []Value

	// Breakout and TrendInit are advisory flags; both stay false until
	// their lookbacks are satisfied.
	Breakout  []bool
	TrendInit []bool
}

// Compute derives every column for s. The index series supplies the
// relative-strength baseline; it may be nil, in which case RS stays
// undefined everywhere.
func Compute(s *market.Series, index *market.Series, cfg Config) *Set {
	closes := s.Closes()

	set := &Set{
		EMAFast:  EMA(closes, cfg.FastEMA),
		SMAShort: SMA(closes, cfg.ShortMA),
		SMALong:  SMA(closes, cfg.LongMA),
		TrendMA:  SMA(closes, cfg.TrendMA),
		ATR:      ATR(s.Bars, cfg.ATR),
		SwingLow: SwingLow(s.Bars, cfg.SwingLow),
		High:     RollingHigh(s.Bars, cfg.High),
		Momentum: Return(closes, cfg.Momentum),
		Breakout: Breakout(s.Bars, cfg.Breakout),
	}

	turnover := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		turnover[i] = b.Turnover()
	}
	set.TurnShort = SMA(turnover, cfg.TurnShort)
	set.TurnLong = SMA(turnover, cfg.TurnLong)

	set.RS = relativeStrength(s, index, cfg.RS)
	set.TrendInit = trendInit(closes, set.TrendMA, cfg)

	return set
}

// relativeStrength is the instrument's trailing return minus the index
// trailing return over the same window, aligned by date. Undefined when
// either side lacks the required history or the date is missing from
// the index.
func relativeStrength(s, index *market.Series, period int) []Value {
	out := make([]Value, s.Len())
	if index == nil || period <= 0 {
		return out
	}

	stockRet := Return(s.Closes(), period)
	indexRet := Return(index.Closes(), period)

	for i := range s.Bars {
		sr, ok := stockRet[i].Get()
		if !ok {
			continue
		}
		j, ok := index.Index(s.Bars[i].Date)
		if !ok {
			continue
		}
		ir, ok := indexRet[j].Get()
		if !ok {
			continue
		}
		out[i] = Some(sr - ir)
	}
	return out
}

// trendInit flags a fresh uptrend: close above the trend MA, the trend
// MA higher than it was TrendSlope days ago, and an upward cross of the
// trend MA somewhere within the last TrendCross days.
func trendInit(closes []float64, trendMA []Value, cfg Config) []bool {
	out := make([]bool, len(closes))
	if cfg.TrendMA <= 0 || cfg.TrendSlope <= 0 || cfg.TrendCross <= 0 {
		return out
	}

	crossUp := func(i int) bool {
		if i < 1 {
			return false
		}
		ma, ok := trendMA[i].Get()
		if !ok {
			return false
		}
		prevMA, ok := trendMA[i-1].Get()
		if !ok {
			return false
		}
		return closes[i] > ma && closes[i-1] <= prevMA
	}

	for i := range closes {
		if i < cfg.TrendSlope {
			continue
		}
		ma, ok := trendMA[i].Get()
		if !ok {
			continue
		}
		maPrev, ok := trendMA[i-cfg.TrendSlope].Get()
		if !ok {
			continue
		}
		if closes[i] <= ma || ma <= maPrev {
			continue
		}

		lo := i - cfg.TrendCross + 1
		if lo < 0 {
			lo = 0
		}
		for j := lo; j <= i; j++ {
			if crossUp(j) {
				out[i] = true
				break
			}
		}
	}
	return out
}
