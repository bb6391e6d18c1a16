// Package feed supplies daily price history to the backtester. The
// Provider seam keeps the simulator independent of where bars come
// from; implementations may fail per instrument without taking down a
// whole run.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/khkim/krxscreen/market"
)

// ErrUnavailable marks a series that cannot be obtained at all: no
// file, empty history, exhausted retries. Callers match it with
// errors.Is to distinguish "this instrument is missing" from transport
// bugs; a missing instrument is excluded, a missing benchmark aborts
// the period.
var ErrUnavailable = errors.New("feed: series unavailable")

// Provider returns daily bars for one code over [start, end]. A
// provider may return fewer rows than requested (partial history);
// that is not an error.
type Provider interface {
	Bars(ctx context.Context, code string, start, end time.Time) (*market.Series, error)
}
