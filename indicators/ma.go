package indicators

// SMA returns the simple moving average column for xs. The first
// period-1 entries are undefined.
func SMA(xs []float64, period int) []Value {
	out := make([]Value, len(xs))
	if period <= 0 {
		return out
	}

	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			out[i] = Some(sum / float64(period))
		}
	}
	return out
}

// EMA returns the exponential moving average column for xs, seeded with
// the SMA of the first period values. Entries before the seed are
// undefined.
func EMA(xs []float64, period int) []Value {
	out := make([]Value, len(xs))
	if period <= 0 || len(xs) < period {
		return out
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += xs[i]
	}
	ema := seed / float64(period)
	out[period-1] = Some(ema)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(xs); i++ {
		ema = (xs[i]-ema)*multiplier + ema
		out[i] = Some(ema)
	}
	return out
}

// Return returns the trailing period-day rate of change
// (xs[i]/xs[i-period] - 1). Undefined for the first period entries and
// wherever the base value is non-positive.
func Return(xs []float64, period int) []Value {
	out := make([]Value, len(xs))
	if period <= 0 {
		return out
	}
	for i := period; i < len(xs); i++ {
		if xs[i-period] <= 0 {
			continue
		}
		out[i] = Some(xs[i]/xs[i-period] - 1)
	}
	return out
}
