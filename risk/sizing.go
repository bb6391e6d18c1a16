package risk

import (
	"errors"
	"math"
)

var (
	// ErrDegenerateRisk means the entry price is at or below the stop,
	// giving non-positive per-share risk.
	ErrDegenerateRisk = errors.New("risk: entry at or below stop")

	// ErrZeroShares means the risk budget buys less than one share.
	ErrZeroShares = errors.New("risk: computed shares is zero")

	// ErrInsufficientCash means the friction-adjusted cost exceeds the
	// available cash.
	ErrInsufficientCash = errors.New("risk: cost exceeds available cash")
)

// Friction models transaction costs: the buy multiplier (>1) inflates
// entry cost, the sell multiplier (<1) shaves proceeds. The strategy's
// edge is thin enough that omitting these materially changes results,
// so every monetary flow goes through them.
type Friction struct {
	Buy  float64 `json:"buy" yaml:"buy"`   // 1.00015
	Sell float64 `json:"sell" yaml:"sell"` // 0.9975
}

// BuyCost is the cash debited to open shares at price.
func (f Friction) BuyCost(shares int64, price float64) float64 {
	return float64(shares) * price * f.Buy
}

// SellProceeds is the cash credited when closing shares at price.
func (f Friction) SellProceeds(shares int64, price float64) float64 {
	return float64(shares) * price * f.Sell
}

// SizingInputs feed the fixed-fractional sizing rule.
type SizingInputs struct {
	Equity   float64 // total account equity
	Cash     float64 // available cash
	RiskPct  float64 // fraction of equity risked per trade, e.g. 0.01
	Entry    float64
	Stop     float64
	Friction Friction
}

// Sizing is a sized entry: shares such that a stop-out loses about
// RiskPct of equity, with the friction-adjusted cost payable from cash.
type Sizing struct {
	Shares     int64
	RiskAmount float64 // equity * riskPct
	Cost       float64 // friction-adjusted cash cost
}

// Size applies the fixed-fractional rule:
//
//	shares = floor(equity*riskPct / (entry - stop))
//
// and rejects degenerate risk, zero shares, or cost beyond cash.
func Size(in SizingInputs) (Sizing, error) {
	perShare := in.Entry - in.Stop
	if perShare <= 0 {
		return Sizing{}, ErrDegenerateRisk
	}

	riskAmount := in.Equity * in.RiskPct
	shares := int64(math.Floor(riskAmount / perShare))
	if shares <= 0 {
		return Sizing{}, ErrZeroShares
	}

	cost := in.Friction.BuyCost(shares, in.Entry)
	if cost > in.Cash {
		return Sizing{}, ErrInsufficientCash
	}

	return Sizing{Shares: shares, RiskAmount: riskAmount, Cost: cost}, nil
}
