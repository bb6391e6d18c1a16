package indicators

import (
	"math"

	"github.com/khkim/krxscreen/market"
)

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(cur, prev market.Bar) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// ATR returns the Average True Range column: a simple rolling mean of
// the true range over period days. The true range needs a previous bar,
// so entries before index period are undefined.
func ATR(bars []market.Bar, period int) []Value {
	out := make([]Value, len(bars))
	if period <= 0 || len(bars) < 2 {
		return out
	}

	sum := 0.0
	trs := make([]float64, len(bars)) // trs[i] = TR of bar i, i >= 1
	for i := 1; i < len(bars); i++ {
		trs[i] = trueRange(bars[i], bars[i-1])
		sum += trs[i]
		if i > period {
			sum -= trs[i-period]
		}
		if i >= period {
			out[i] = Some(sum / float64(period))
		}
	}
	return out
}
