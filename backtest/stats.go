package backtest

import "github.com/montanaflynn/stats"

// maxDrawdownPct returns the deepest peak-to-trough equity loss as a
// negative percentage (0 for a curve that never draws down).
func maxDrawdownPct(curve []EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}

	dd := make(stats.Float64Data, 0, len(curve))
	peak := curve[0].Equity
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd = append(dd, (p.Equity-peak)/peak)
		}
	}
	if len(dd) == 0 {
		return 0
	}

	worst, err := stats.Min(dd)
	if err != nil {
		return 0
	}
	return worst * 100
}

// summarize derives the outward summary from the curve and trades.
func summarize(initial, final float64, curve []EquityPoint, trades []Trade) Summary {
	s := Summary{
		FinalBalance:   final,
		TradeCount:     len(trades),
		MaxDrawdownPct: maxDrawdownPct(curve),
	}
	if initial > 0 {
		s.TotalReturnPct = (final/initial - 1) * 100
	}
	for _, t := range trades {
		if t.Win {
			s.Wins++
		}
	}
	if s.TradeCount > 0 {
		s.WinRatePct = float64(s.Wins) / float64(s.TradeCount) * 100
	}
	return s
}
