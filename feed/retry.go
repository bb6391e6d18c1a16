package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/khkim/krxscreen/market"
)

// Retry wraps a Provider with bounded attempts and a per-request
// timeout. When querying "latest available" data, EndFallback walks the
// requested end date backwards one step per retry, which papers over
// sources that have not published today's bar yet. Exhausted retries
// surface as ErrUnavailable so the caller excludes the instrument
// instead of aborting the universe.
type Retry struct {
	Inner       Provider
	Attempts    int           // total attempts, minimum 1
	Timeout     time.Duration // per attempt; 0 disables
	EndFallback time.Duration // shift end earlier per retry; 0 disables
}

func (r Retry) Bars(ctx context.Context, code string, start, end time.Time) (*market.Series, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx := ctx
		cancel := func() {}
		if r.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		}
		s, err := r.Inner.Bars(attemptCtx, code, start, end)
		cancel()

		if err == nil {
			return s, nil
		}
		lastErr = err

		// Hard unavailability will not improve by retrying the same
		// window; only the end-date fallback gives it another chance.
		if errors.Is(err, ErrUnavailable) && r.EndFallback == 0 {
			return nil, err
		}

		if r.EndFallback > 0 {
			end = end.Add(-r.EndFallback)
		}
		log.WithFields(log.Fields{
			"code":    code,
			"attempt": i + 1,
			"end":     end.Format("2006-01-02"),
		}).WithError(err).Debug("feed retry")
	}

	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrUnavailable, code, attempts, lastErr)
}
