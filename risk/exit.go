package risk

import "github.com/khkim/krxscreen/market"

// ExitReason identifies which rule closed a position.
type ExitReason string

const (
	ExitHardStop  ExitReason = "hard_stop"  // structural stop breached
	ExitTrailStop ExitReason = "trail_stop" // trailing stop breached
	ExitRerating  ExitReason = "rerating"   // score declined too long
	ExitRiskOff   ExitReason = "risk_off"   // market regime turned off
	ExitEndOfRun  ExitReason = "end_of_run" // closed out at range end
)

// Exit is a fired exit decision: the rule and the fill price.
type Exit struct {
	Reason ExitReason
	Price  float64
}

// CheckExit runs the exit waterfall for today, in strict priority
// order; the first rule that fires wins. Stop exits fill at the stop
// price, decay and regime exits fill at today's open.
func (p *Position) CheckExit(bar market.Bar, riskOn bool, decayStreak int) (Exit, bool) {
	if bar.Low <= p.HardStop {
		return Exit{Reason: ExitHardStop, Price: p.HardStop}, true
	}
	if bar.Low <= p.TrailStop {
		return Exit{Reason: ExitTrailStop, Price: p.TrailStop}, true
	}
	if decayStreak > 0 && p.DownStreak >= decayStreak {
		return Exit{Reason: ExitRerating, Price: bar.Open}, true
	}
	if !riskOn {
		return Exit{Reason: ExitRiskOff, Price: bar.Open}, true
	}
	return Exit{}, false
}
