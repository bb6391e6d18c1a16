package indicators

import "github.com/khkim/krxscreen/market"

// SwingLow returns the minimum low over the prior period days,
// excluding the current day. Entries before index period are
// undefined. Using only prior bars keeps the stop anchor free of
// look-ahead.
func SwingLow(bars []market.Bar, period int) []Value {
	out := make([]Value, len(bars))
	if period <= 0 {
		return out
	}
	for i := period; i < len(bars); i++ {
		lo := bars[i-1].Low
		for j := i - period; j < i-1; j++ {
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
		}
		out[i] = Some(lo)
	}
	return out
}

// RollingHigh returns the maximum high over the trailing period days,
// including the current day. The first period-1 entries are undefined.
func RollingHigh(bars []market.Bar, period int) []Value {
	out := make([]Value, len(bars))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(bars); i++ {
		hi := bars[i].High
		for j := i - period + 1; j < i; j++ {
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		out[i] = Some(hi)
	}
	return out
}

// Breakout flags dates where the close exceeds the highest high of the
// prior period days (today excluded). False until enough history.
func Breakout(bars []market.Bar, period int) []bool {
	out := make([]bool, len(bars))
	if period <= 0 {
		return out
	}
	for i := period; i < len(bars); i++ {
		hi := bars[i-1].High
		for j := i - period; j < i-1; j++ {
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		out[i] = bars[i].Close > hi
	}
	return out
}
