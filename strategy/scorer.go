// Package strategy ranks entry candidates. The scoring formula is
// pluggable: every variant implements Scorer and registers under a
// name, so the backtest engine never branches on a mode string.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/market"
)

// Context is one instrument frozen at one date: its series, its
// precomputed indicator columns, and the bar offset under evaluation.
type Context struct {
	Series *market.Series
	Ind    *indicators.Set
	Idx    int
}

// Bar returns the bar under evaluation.
func (c Context) Bar() market.Bar { return c.Series.At(c.Idx) }

// Scorer computes a desirability score for a candidate on one day.
// ok=false means the candidate is not eligible that day (insufficient
// history, below-trend close, and so on) and must be excluded from
// ranking, never treated as score zero.
type Scorer interface {
	Name() string
	Score(ctx Context) (score float64, ok bool)
}

var registry = make(map[string]func() Scorer)

// Register makes a scorer constructor available to ByName. Meant to be
// called from init or from test setup.
func Register(name string, mk func() Scorer) {
	registry[strings.ToLower(name)] = mk
}

// ByName returns a fresh scorer for the given registered name.
func ByName(name string) (Scorer, error) {
	mk, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown scorer %q (registered: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists registered scorer names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
