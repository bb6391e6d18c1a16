// Package backtest walks a universe of daily series forward through
// time, gating entries on the market regime, ranking candidates with a
// pluggable scorer, and managing exits through the risk package's stop
// waterfall. The simulation is strictly sequential: every day depends
// on the prior day's cash, positions, and stop ratchets.
package backtest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/khkim/krxscreen/indicators"
	"github.com/khkim/krxscreen/internal/id"
	"github.com/khkim/krxscreen/market"
	"github.com/khkim/krxscreen/regime"
	"github.com/khkim/krxscreen/risk"
	"github.com/khkim/krxscreen/strategy"
)

// ErrBenchmarkUnavailable means the index series for the requested
// period is missing or too short to simulate. The period must be
// reported as skipped, never as a zero-return result.
var ErrBenchmarkUnavailable = errors.New("backtest: benchmark series unavailable")

// Config is the full parameter surface of one run. There are no
// package-level knobs; everything flows through here.
type Config struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	RiskPct        float64 `json:"risk_pct" yaml:"risk_pct"`

	// MaxPositions is 1 in the baseline (deliberate concentration).
	// Raising it keeps per-position fractional risk and adds the
	// aggregate cap below.
	MaxPositions    int     `json:"max_positions" yaml:"max_positions"`
	MaxTotalRiskPct float64 `json:"max_total_risk_pct" yaml:"max_total_risk_pct"`

	DecayStreak int `json:"decay_streak" yaml:"decay_streak"` // 15
	Warmup      int `json:"warmup" yaml:"warmup"`             // 200 index dates
	MinHistory  int `json:"min_history" yaml:"min_history"`   // drop shorter instruments

	// CloseAtEnd liquidates surviving positions at their last close for
	// the final statistics. The equity curve itself always keeps them
	// marked-to-market.
	CloseAtEnd bool `json:"close_at_end" yaml:"close_at_end"`

	Friction   risk.Friction     `json:"friction" yaml:"friction"`
	Stops      risk.StopConfig   `json:"stops" yaml:"stops"`
	Guards     strategy.Guards   `json:"guards" yaml:"guards"`
	Indicators indicators.Config `json:"indicators" yaml:"indicators"`
	Regime     regime.Config     `json:"regime" yaml:"regime"`
}

// DefaultConfig is the most developed variant's parameter set.
func DefaultConfig() Config {
	return Config{
		InitialBalance:  10_000_000,
		RiskPct:         0.01,
		MaxPositions:    1,
		MaxTotalRiskPct: 0.01,
		DecayStreak:     15,
		Warmup:          200,
		MinHistory:      200,
		Friction:        risk.Friction{Buy: 1.00015, Sell: 0.9975},
		Stops: risk.StopConfig{
			HardStopATR: 0.5,
			KMin:        2.2,
			KSpan:       1.4,
			BaseVol:     0.02,
			VolSlope:    50,
			KDefault:    2.8,
		},
		Guards: strategy.Guards{GapATRMax: 2.5},
		Indicators: indicators.Config{
			FastEMA:    20,
			ShortMA:    20,
			LongMA:     60,
			TrendMA:    120,
			TrendSlope: 5,
			TrendCross: 35,
			ATR:        14,
			SwingLow:   10,
			Breakout:   10,
			High:       60,
			Momentum:   20,
			RS:         60,
			TurnShort:  20,
			TurnLong:   60,
		},
		Regime: regime.Config{Mode: regime.Strict, ShortMA: 50, LongMA: 200, Buffer: 0.95},
	}
}

func (c Config) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("backtest: initial_balance must be positive")
	}
	if c.RiskPct <= 0 || c.RiskPct >= 1 {
		return fmt.Errorf("backtest: risk_pct must be in (0, 1)")
	}
	if c.MaxPositions < 1 {
		return fmt.Errorf("backtest: max_positions must be at least 1")
	}
	if c.MaxTotalRiskPct < c.RiskPct {
		return fmt.Errorf("backtest: max_total_risk_pct must be at least risk_pct")
	}
	if c.Warmup < 1 {
		return fmt.Errorf("backtest: warmup must be positive")
	}
	if c.Friction.Buy < 1 {
		return fmt.Errorf("backtest: buy friction must be >= 1")
	}
	if c.Friction.Sell <= 0 || c.Friction.Sell > 1 {
		return fmt.Errorf("backtest: sell friction must be in (0, 1]")
	}
	if c.Indicators.Breakout > c.Indicators.SwingLow {
		return fmt.Errorf("backtest: breakout window must not exceed swing_low window")
	}
	return c.Regime.Validate()
}

type instrument struct {
	series *market.Series
	ind    *indicators.Set
}

// Engine runs one isolated walk-forward simulation. Engines share no
// mutable state, so independent runs may execute concurrently.
type Engine struct {
	cfg    Config
	scorer strategy.Scorer
	index  *market.Series
	riskOn []bool
	codes  []string
	insts  map[string]*instrument
	log    *log.Entry
}

// NewEngine validates the benchmark, derives the regime series, and
// precomputes indicators for every usable instrument. Instruments with
// less history than MinHistory are dropped from the universe for the
// whole run; that is a per-instrument condition and never aborts the
// engine. A missing or too-short benchmark does abort, with
// ErrBenchmarkUnavailable.
func NewEngine(cfg Config, scorer strategy.Scorer, index *market.Series, universe map[string]*market.Series) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, fmt.Errorf("backtest: scorer is required")
	}
	if index == nil || index.Len() <= cfg.Warmup {
		return nil, fmt.Errorf("%w: need more than %d index bars", ErrBenchmarkUnavailable, cfg.Warmup)
	}

	e := &Engine{
		cfg:    cfg,
		scorer: scorer,
		index:  index,
		riskOn: regime.Classify(index, cfg.Regime),
		insts:  make(map[string]*instrument, len(universe)),
		log:    log.WithField("scorer", scorer.Name()),
	}

	for code, s := range universe {
		if s == nil || s.Len() < cfg.MinHistory {
			e.log.WithField("code", code).Warn("dropping instrument: insufficient history")
			continue
		}
		e.insts[code] = &instrument{
			series: s,
			ind:    indicators.Compute(s, index, cfg.Indicators),
		}
		e.codes = append(e.codes, code)
	}
	sort.Strings(e.codes)

	return e, nil
}

type candidate struct {
	code  string
	score float64
	idx   int
}

// Run walks the index dates in order. Per day, strictly: mark the
// portfolio to market and append the equity point, run the exit
// waterfall for held positions, then scan for entries if the regime is
// risk-on and capacity remains. An instrument that exited today is not
// reconsidered until the next date.
func (e *Engine) Run() (*Result, error) {
	cash := e.cfg.InitialBalance
	positions := make(map[string]*risk.Position)

	res := &Result{
		RunID:  id.New(),
		Scorer: e.scorer.Name(),
		Start:  e.index.At(e.cfg.Warmup).Date,
		End:    e.index.At(e.index.Len() - 1).Date,
	}

	for i := e.cfg.Warmup; i < e.index.Len(); i++ {
		date := e.index.At(i).Date
		riskOn := e.riskOn[i]

		// 1) Mark-to-market, unconditionally, before any trading.
		equity := cash
		for _, code := range sortedCodes(positions) {
			equity += e.markValue(positions[code], date)
		}
		res.Curve = append(res.Curve, EquityPoint{Date: date, Equity: equity})

		// 2) Exits for held positions.
		exitedToday := make(map[string]bool)
		for _, code := range sortedCodes(positions) {
			p := positions[code]
			inst := e.insts[code]
			bi, ok := inst.series.Index(date)
			if !ok {
				continue // trading halt; carry the position untouched
			}
			bar := inst.series.At(bi)

			p.Update(bar, inst.ind.ATR[bi], inst.ind.SwingLow[bi], e.cfg.Stops)
			if sc, ok := e.scorer.Score(strategy.Context{Series: inst.series, Ind: inst.ind, Idx: bi}); ok {
				p.ObserveScore(sc)
			}

			exit, fired := p.CheckExit(bar, riskOn, e.cfg.DecayStreak)
			if !fired {
				continue
			}

			cash += e.cfg.Friction.SellProceeds(p.Shares, exit.Price)
			res.Trades = append(res.Trades, e.closedTrade(p, date, exit.Price, exit.Reason))
			delete(positions, code)
			exitedToday[code] = true

			e.log.WithFields(log.Fields{
				"code":   code,
				"date":   date.Format("2006-01-02"),
				"reason": exit.Reason,
				"price":  exit.Price,
			}).Debug("exit")
		}

		// 3) Entries, only when risk-on and below capacity.
		if !riskOn || len(positions) >= e.cfg.MaxPositions {
			continue
		}

		var cands []candidate
		for _, code := range e.codes {
			if positions[code] != nil || exitedToday[code] {
				continue
			}
			inst := e.insts[code]
			bi, ok := inst.series.Index(date)
			if !ok {
				continue
			}
			ctx := strategy.Context{Series: inst.series, Ind: inst.ind, Idx: bi}
			sc, ok := e.scorer.Score(ctx)
			if !ok || !e.cfg.Guards.Allow(ctx) {
				continue
			}
			cands = append(cands, candidate{code: code, score: sc, idx: bi})
		}

		sort.Slice(cands, func(a, b int) bool {
			if cands[a].score != cands[b].score {
				return cands[a].score > cands[b].score
			}
			return cands[a].code < cands[b].code
		})

		for _, cand := range cands {
			if len(positions) >= e.cfg.MaxPositions {
				break
			}
			if float64(len(positions)+1)*e.cfg.RiskPct > e.cfg.MaxTotalRiskPct+1e-12 {
				break // aggregate open-risk cap
			}

			inst := e.insts[cand.code]
			bar := inst.series.At(cand.idx)
			atr, okATR := inst.ind.ATR[cand.idx].Get()
			swing, okSwing := inst.ind.SwingLow[cand.idx].Get()
			if !okATR || !okSwing {
				continue
			}
			hardStop := e.cfg.Stops.HardStopPrice(swing, atr)

			equityNow := cash
			for _, code := range sortedCodes(positions) {
				equityNow += e.markValue(positions[code], date)
			}

			sz, err := risk.Size(risk.SizingInputs{
				Equity:   equityNow,
				Cash:     cash,
				RiskPct:  e.cfg.RiskPct,
				Entry:    bar.Close,
				Stop:     hardStop,
				Friction: e.cfg.Friction,
			})
			if err != nil {
				e.log.WithFields(log.Fields{
					"code": cand.code,
					"date": date.Format("2006-01-02"),
				}).WithError(err).Debug("entry skipped")
				continue
			}

			cash -= sz.Cost
			positions[cand.code] = risk.Open(cand.code, inst.series.Name, sz.Shares, bar.Close, date, hardStop, cand.score)

			e.log.WithFields(log.Fields{
				"code":   cand.code,
				"date":   date.Format("2006-01-02"),
				"shares": sz.Shares,
				"entry":  bar.Close,
				"stop":   hardStop,
				"score":  cand.score,
			}).Debug("entry")
		}
	}

	final := res.Curve[len(res.Curve)-1].Equity
	if e.cfg.CloseAtEnd {
		for _, code := range sortedCodes(positions) {
			p := positions[code]
			last := e.lastClose(p)
			cash += e.cfg.Friction.SellProceeds(p.Shares, last)
			res.Trades = append(res.Trades, e.closedTrade(p, res.End, last, risk.ExitEndOfRun))
			delete(positions, code)
		}
		final = cash
	}

	res.Summary = summarize(e.cfg.InitialBalance, final, res.Curve, res.Trades)
	return res, nil
}

// markValue marks a position at the close for date, falling back to the
// most recent close when the instrument did not trade that day.
func (e *Engine) markValue(p *risk.Position, date time.Time) float64 {
	inst := e.insts[p.Code]
	if bi, ok := inst.series.Index(date); ok {
		return p.MarketValue(inst.series.At(bi).Close)
	}
	return p.MarketValue(p.LastClose)
}

// lastClose is the most recent close the position has been marked at.
func (e *Engine) lastClose(p *risk.Position) float64 {
	return p.LastClose
}

func (e *Engine) closedTrade(p *risk.Position, exitDate time.Time, exitPrice float64, reason risk.ExitReason) Trade {
	pnl := (exitPrice - p.EntryPrice) * float64(p.Shares)
	return Trade{
		ID:         id.New(),
		Code:       p.Code,
		Name:       p.Name,
		Shares:     p.Shares,
		EntryDate:  p.EntryDate,
		ExitDate:   exitDate,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPrice,
		Cost:       e.cfg.Friction.BuyCost(p.Shares, p.EntryPrice),
		Proceeds:   e.cfg.Friction.SellProceeds(p.Shares, exitPrice),
		PnL:        pnl,
		Reason:     reason,
		Win:        pnl > 0,
	}
}

func sortedCodes(m map[string]*risk.Position) []string {
	out := make([]string, 0, len(m))
	for code := range m {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
