// Package regime derives the market-wide risk-on/risk-off gate from the
// benchmark index series. The classifier is a pure function of index
// history: on any date it reads only bars up to that date, so
// re-running it on the same input always yields the same series.
package regime

import (
	"fmt"

	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/market"
)

// Mode selects which gate formula applies.
type Mode string

const (
	// Strict requires close > short MA and short MA > long MA. This is
	// the default gate.
	Strict Mode = "strict"

	// Loose only requires close above a buffered long MA. It lets
	// entries through while the market is merely not in a downtrend.
	Loose Mode = "loose"
)

type Config struct {
	Mode    Mode    `json:"mode" yaml:"mode"`
	ShortMA int     `json:"short_ma" yaml:"short_ma"` // 50
	LongMA  int     `json:"long_ma" yaml:"long_ma"`   // 200
	Buffer  float64 `json:"buffer" yaml:"buffer"`     // loose mode, e.g. 0.95
}

func (c Config) Validate() error {
	switch c.Mode {
	case Strict:
		if c.ShortMA <= 0 || c.LongMA <= 0 || c.ShortMA >= c.LongMA {
			return fmt.Errorf("regime: need 0 < short_ma < long_ma, got %d/%d", c.ShortMA, c.LongMA)
		}
	case Loose:
		if c.LongMA <= 0 {
			return fmt.Errorf("regime: long_ma must be positive, got %d", c.LongMA)
		}
		if c.Buffer <= 0 || c.Buffer > 1 {
			return fmt.Errorf("regime: buffer must be in (0, 1], got %v", c.Buffer)
		}
	default:
		return fmt.Errorf("regime: unknown mode %q", c.Mode)
	}
	return nil
}

// Classify returns one risk-on flag per index bar. Dates where the
// required moving averages are still undefined are risk-off.
func Classify(index *market.Series, cfg Config) []bool {
	closes := index.Closes()
	out := make([]bool, len(closes))

	longMA := indicators.SMA(closes, cfg.LongMA)

	switch cfg.Mode {
	case Loose:
		for i := range closes {
			ma, ok := longMA[i].Get()
			if !ok {
				continue
			}
			out[i] = closes[i] > ma*cfg.Buffer
		}
	default:
		shortMA := indicators.SMA(closes, cfg.ShortMA)
		for i := range closes {
			sm, ok := shortMA[i].Get()
			if !ok {
				continue
			}
			lm, ok := longMA[i].Get()
			if !ok {
				continue
			}
			out[i] = closes[i] > sm && sm > lm
		}
	}
	return out
}
