package backtest

import (
	"time"

	"github.com/khkim/krxscreen/risk"
)

// EquityPoint is one (date, total equity) sample of the equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Trade is one closed round trip. PnL is the raw price difference times
// shares; Proceeds and Cost are the friction-adjusted cash flows.
type Trade struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name,omitempty"`
	Shares     int64           `json:"shares"`
	EntryDate  time.Time       `json:"entry_date"`
	ExitDate   time.Time       `json:"exit_date"`
	EntryPrice float64         `json:"entry_price"`
	ExitPrice  float64         `json:"exit_price"`
	Cost       float64         `json:"cost"`
	Proceeds   float64         `json:"proceeds"`
	PnL        float64         `json:"pnl"`
	Reason     risk.ExitReason `json:"reason"`
	Win        bool            `json:"win"`
}

// Summary aggregates one run for the outward contract: return, final
// balance, trade count, win rate, max drawdown.
type Summary struct {
	TotalReturnPct float64 `json:"total_return"`
	FinalBalance   float64 `json:"final_balance"`
	TradeCount     int     `json:"trade_count"`
	Wins           int     `json:"wins"`
	WinRatePct     float64 `json:"win_rate"`
	MaxDrawdownPct float64 `json:"mdd"`
}

// Result is the full outcome of one walk-forward run.
type Result struct {
	RunID   string        `json:"run_id"`
	Scorer  string        `json:"scorer"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Summary Summary       `json:"summary"`
	Curve   []EquityPoint `json:"equity_curve"`
	Trades  []Trade       `json:"trades"`
}
