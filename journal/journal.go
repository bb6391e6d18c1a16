// Package journal persists backtest runs: per-run summaries, closed
// trades, and equity curves, to SQLite or CSV, plus the JSON results
// file the dashboard consumes.
package journal

import (
	"time"

	"github.com/khkim/krxscreen/backtest"
)

// RunRecord mirrors the runs table: one row per completed backtest.
type RunRecord struct {
	RunID     string
	Period    string
	Scorer    string
	Start     time.Time
	End       time.Time
	StartBal  float64
	FinalBal  float64
	ReturnPct float64
	Trades    int
	Wins      int
	WinRate   float64
	MaxDDPct  float64
	Created   time.Time
}

// TradeRecord mirrors the trades table.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Code       string
	Name       string
	Shares     int64
	EntryPrice float64
	ExitPrice  float64
	EntryDate  time.Time
	ExitDate   time.Time
	PnL        float64
	Reason     string
}

// EquityRecord mirrors the equity table.
type EquityRecord struct {
	RunID  string
	Date   time.Time
	Equity float64
}

// Journal persists a run and its children.
type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// Record writes one backtest result through a Journal.
func Record(j Journal, period string, initialBalance float64, res *backtest.Result) error {
	run := RunRecord{
		RunID:     res.RunID,
		Period:    period,
		Scorer:    res.Scorer,
		Start:     res.Start,
		End:       res.End,
		StartBal:  initialBalance,
		FinalBal:  res.Summary.FinalBalance,
		ReturnPct: res.Summary.TotalReturnPct,
		Trades:    res.Summary.TradeCount,
		Wins:      res.Summary.Wins,
		WinRate:   res.Summary.WinRatePct,
		MaxDDPct:  res.Summary.MaxDrawdownPct,
		Created:   time.Now().UTC(),
	}
	if err := j.RecordRun(run); err != nil {
		return err
	}

	for _, t := range res.Trades {
		rec := TradeRecord{
			TradeID:    t.ID,
			RunID:      res.RunID,
			Code:       t.Code,
			Name:       t.Name,
			Shares:     t.Shares,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			EntryDate:  t.EntryDate,
			ExitDate:   t.ExitDate,
			PnL:        t.PnL,
			Reason:     string(t.Reason),
		}
		if err := j.RecordTrade(rec); err != nil {
			return err
		}
	}

	for _, p := range res.Curve {
		if err := j.RecordEquity(EquityRecord{RunID: res.RunID, Date: p.Date, Equity: p.Equity}); err != nil {
			return err
		}
	}
	return nil
}
