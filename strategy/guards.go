package strategy

// Guards are the candidate-selection filters applied after scoring.
// They live outside the score on purpose: a gapping or structurally
// broken name is excluded outright, not merely ranked lower.
type Guards struct {
	// GapATRMax rejects bars where (close-open)/ATR exceeds this
	// multiple. Filters news-driven spikes.
	GapATRMax float64 `json:"gap_atr_max" yaml:"gap_atr_max"` // 2.5
}

// Allow reports whether the candidate may enter today. Requires a
// defined ATR and swing low; a candidate without them is not allowed.
func (g Guards) Allow(ctx Context) bool {
	bar := ctx.Bar()
	ind := ctx.Ind
	i := ctx.Idx

	atr, ok := ind.ATR[i].Get()
	if !ok || atr <= 0 {
		return false
	}
	if g.GapATRMax > 0 && (bar.Close-bar.Open)/atr > g.GapATRMax {
		return false
	}

	// Structure intact: today's low must hold above the prior swing low.
	swing, ok := ind.SwingLow[i].Get()
	if !ok || bar.Low <= swing {
		return false
	}
	return true
}
