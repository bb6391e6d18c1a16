// Package indicators derives the technical columns the scorers and the
// risk manager consume: moving averages, ATR, swing lows, rolling highs,
// relative strength, and trend flags.
package indicators

// Value is a single indicator observation that may not exist yet. A
// column is undefined until its full lookback has accumulated; undefined
// values must never be read numerically, they disqualify the date
// instead. Callers check Defined (or use Get) before Float.
type Value struct {
	v  float64
	ok bool
}

// Some wraps a computed observation.
func Some(v float64) Value { return Value{v: v, ok: true} }

// None is the undefined observation.
func None() Value { return Value{} }

func (v Value) Defined() bool { return v.ok }

// Float returns the observation, or 0 when undefined. Always pair with
// Defined; the zero here is a sentinel, not a usable value.
func (v Value) Float() float64 { return v.v }

// Get returns the observation and whether it is defined.
func (v Value) Get() (float64, bool) { return v.v, v.ok }
