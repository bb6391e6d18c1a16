package backtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/khkim/krxscreen/feed"
	"github.com/khkim/krxscreen/market"
	"github.com/khkim/krxscreen/strategy"
)

// Period is one independent backtest window.
type Period struct {
	Name  string    `json:"name" yaml:"name"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Runner fetches data and runs one engine per period. Periods are
// independent: each run owns its portfolio and curve, so they execute
// concurrently and merge only after completion.
type Runner struct {
	Cfg       Config
	NewScorer func() (strategy.Scorer, error)
	Provider  feed.Provider
	Benchmark string            // index code, e.g. "KS11"
	Universe  map[string]string // code -> display name
	Periods   []Period
}

// BatchResult separates simulated periods from skipped ones. A skipped
// period (benchmark unavailable, too little index history) carries its
// reason; it is never reported as a zero-return result.
type BatchResult struct {
	Results map[string]*Result
	Skipped map[string]error
}

// Run executes every period, one goroutine each. Only a canceled
// context or an invalid configuration fails the batch; per-period data
// problems degrade to skips.
func (r *Runner) Run(ctx context.Context) (*BatchResult, error) {
	if err := r.Cfg.Validate(); err != nil {
		return nil, err
	}
	if r.Provider == nil {
		return nil, fmt.Errorf("backtest: provider is required")
	}
	if r.NewScorer == nil {
		return nil, fmt.Errorf("backtest: scorer constructor is required")
	}
	if r.Benchmark == "" {
		return nil, fmt.Errorf("backtest: benchmark code is required")
	}

	batch := &BatchResult{
		Results: make(map[string]*Result, len(r.Periods)),
		Skipped: make(map[string]error),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, period := range r.Periods {
		wg.Add(1)
		go func(p Period) {
			defer wg.Done()

			res, err := r.runPeriod(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				batch.Skipped[p.Name] = err
				log.WithField("period", p.Name).WithError(err).Warn("period skipped")
				return
			}
			batch.Results[p.Name] = res
		}(period)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *Runner) runPeriod(ctx context.Context, p Period) (*Result, error) {
	index, err := r.Provider.Bars(ctx, r.Benchmark, p.Start, p.End)
	if err != nil {
		if errors.Is(err, feed.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrBenchmarkUnavailable, err)
		}
		return nil, err
	}

	universe := make(map[string]*market.Series, len(r.Universe))
	for code, name := range r.Universe {
		s, err := r.Provider.Bars(ctx, code, p.Start, p.End)
		if err != nil {
			if errors.Is(err, feed.ErrUnavailable) {
				// One instrument missing only shrinks the universe.
				log.WithFields(log.Fields{"period": p.Name, "code": code}).Warn("instrument excluded")
				continue
			}
			return nil, err
		}
		s.Name = name
		universe[code] = s
	}

	scorer, err := r.NewScorer()
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(r.Cfg, scorer, index, universe)
	if err != nil {
		return nil, err
	}
	return engine.Run()
}
