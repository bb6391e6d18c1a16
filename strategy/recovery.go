package strategy

// Recovery is the bottom-fishing entry variant: it looks for names
// still under their long moving average that have reclaimed the short
// one, scoring by how far the close has lifted off the short MA. It
// trades far earlier in a base than Rating and is meant for loose
// regime gating.
type Recovery struct{}

func (Recovery) Name() string { return "recovery" }

func (Recovery) Score(ctx Context) (float64, bool) {
	bar := ctx.Bar()
	ind := ctx.Ind
	i := ctx.Idx

	if bar.Close <= 0 {
		return 0, false
	}
	short, ok := ind.SMAShort[i].Get()
	if !ok || short <= 0 {
		return 0, false
	}
	long, ok := ind.SMALong[i].Get()
	if !ok {
		return 0, false
	}

	// Below the long MA (still basing) but back above the short MA.
	if bar.Close >= long || bar.Close <= short {
		return 0, false
	}
	return bar.Close/short - 1, true
}

func init() {
	Register("rating", func() Scorer { return NewRating(DefaultWeights()) })
	Register("recovery", func() Scorer { return Recovery{} })
}
