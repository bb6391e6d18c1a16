// Package market holds the daily price data model shared by the
// indicator engine, the scorers, and the backtest engine.
package market

import (
	"fmt"
	"time"
)

// Bar is one trading day of OHLCV data for a single instrument.
// Bars are immutable once loaded.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day normalizes a timestamp to midnight UTC so bars from different
// sources key identically.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Turnover is the close*volume proxy for traded value.
func (b Bar) Turnover() float64 {
	return b.Close * b.Volume
}

// Validate checks basic OHLC sanity.
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s: non-positive price", b.Date.Format("2006-01-02"))
	}
	if b.High < b.Open || b.High < b.Close || b.High < b.Low {
		return fmt.Errorf("bar %s: high below open/close/low", b.Date.Format("2006-01-02"))
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("bar %s: low above open/close", b.Date.Format("2006-01-02"))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s: negative volume", b.Date.Format("2006-01-02"))
	}
	return nil
}
