package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/khkim/krxscreen/backtest"
)

// jsonSummary matches the shape the dashboard reads: one object per
// period with a summary block and the equity curve.
type jsonSummary struct {
	TotalReturn  float64 `json:"total_return"`
	FinalBalance int64   `json:"final_balance"`
	TradeCount   int     `json:"trade_count"`
	WinRate      float64 `json:"win_rate"`
	MDD          float64 `json:"mdd"`
}

type jsonEquityPoint struct {
	Date   string `json:"date"`
	Equity int64  `json:"equity"`
}

type jsonResult struct {
	Summary     jsonSummary       `json:"summary"`
	EquityCurve []jsonEquityPoint `json:"equity_curve"`
}

// WriteResults writes the per-period results file. Periods are emitted
// in sorted key order so the file diffs cleanly between runs.
func WriteResults(path string, results map[string]*backtest.Result) error {
	out := make(map[string]jsonResult, len(results))

	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		res := results[k]
		jr := jsonResult{
			Summary: jsonSummary{
				TotalReturn:  round2(res.Summary.TotalReturnPct),
				FinalBalance: int64(res.Summary.FinalBalance),
				TradeCount:   res.Summary.TradeCount,
				WinRate:      round1(res.Summary.WinRatePct),
				MDD:          round2(res.Summary.MaxDrawdownPct),
			},
			EquityCurve: make([]jsonEquityPoint, 0, len(res.Curve)),
		}
		for _, p := range res.Curve {
			jr.EquityCurve = append(jr.EquityCurve, jsonEquityPoint{
				Date:   p.Date.Format(time.DateOnly),
				Equity: int64(p.Equity),
			})
		}
		out[k] = jr
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("journal: marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("journal: write results: %w", err)
	}
	return nil
}

func round2(x float64) float64 { return float64(int64(x*100+sign(x)*0.5)) / 100 }
func round1(x float64) float64 { return float64(int64(x*10+sign(x)*0.5)) / 10 }

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
