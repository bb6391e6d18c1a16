package strategy

import "math"

// Weights parameterizes the re-rating score. The inner weights blend
// the earnings-expectation proxy (price momentum, turnover momentum,
// high proximity); the outer weights blend that proxy with relative
// strength, structure quality, and the trend-initiation bonus.
type Weights struct {
	Momentum float64 `json:"momentum" yaml:"momentum"`   // 0.45
	Turnover float64 `json:"turnover" yaml:"turnover"`   // 0.35
	NearHigh float64 `json:"near_high" yaml:"near_high"` // 0.20

	DeltaE    float64 `json:"delta_e" yaml:"delta_e"`     // 0.35
	RS        float64 `json:"rs" yaml:"rs"`               // 0.25
	Structure float64 `json:"structure" yaml:"structure"` // 0.20
	Trend     float64 `json:"trend" yaml:"trend"`         // 0.20

	// VolPenaltyAbove is the ATR/close ratio beyond which the score is
	// penalized for excess volatility.
	VolPenaltyAbove float64 `json:"vol_penalty_above" yaml:"vol_penalty_above"` // 0.035
}

// DefaultWeights are the weights of the most developed variant of the
// strategy.
func DefaultWeights() Weights {
	return Weights{
		Momentum:        0.45,
		Turnover:        0.35,
		NearHigh:        0.20,
		DeltaE:          0.35,
		RS:              0.25,
		Structure:       0.20,
		Trend:           0.20,
		VolPenaltyAbove: 0.035,
	}
}

// Rating is the canonical re-rating scorer. A candidate is eligible
// only in a short-term uptrend (close above the fast EMA) with a valid
// ATR and full history for every sub-component.
type Rating struct {
	W Weights
}

func NewRating(w Weights) *Rating { return &Rating{W: w} }

func (r *Rating) Name() string { return "rating" }

func (r *Rating) Score(ctx Context) (float64, bool) {
	bar := ctx.Bar()
	ind := ctx.Ind
	i := ctx.Idx

	atr, ok := ind.ATR[i].Get()
	if !ok || atr <= 0 || bar.Close <= 0 {
		return 0, false
	}
	ema, ok := ind.EMAFast[i].Get()
	if !ok || bar.Close <= ema {
		return 0, false
	}

	mom, ok := ind.Momentum[i].Get()
	if !ok {
		return 0, false
	}
	rs, ok := ind.RS[i].Get()
	if !ok {
		return 0, false
	}
	hi, ok := ind.High[i].Get()
	if !ok || hi <= 0 {
		return 0, false
	}
	tShort, ok := ind.TurnShort[i].Get()
	if !ok {
		return 0, false
	}
	tLong, ok := ind.TurnLong[i].Get()
	if !ok {
		return 0, false
	}

	turnMom := 0.0
	if tLong > 0 {
		turnMom = tShort/tLong - 1
	}

	// Distance from the rolling high is penalized symmetrically: being
	// extended above the band is no better than lagging below it.
	nearHigh := -math.Abs(bar.Close/hi - 1)

	volPenalty := -math.Max(0, atr/bar.Close-r.W.VolPenaltyAbove)

	trendBonus := 0.0
	if ind.TrendInit[i] {
		trendBonus = 1.0
	}

	deltaE := r.W.Momentum*mom + r.W.Turnover*turnMom + r.W.NearHigh*nearHigh

	score := r.W.DeltaE*deltaE +
		r.W.RS*rs +
		r.W.Structure*(nearHigh+volPenalty) +
		r.W.Trend*trendBonus

	return score, true
}
