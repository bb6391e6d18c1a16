package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/khkim/krxscreen/market"
)

// csvBar mirrors one row of a daily OHLCV export
// (Date,Open,High,Low,Close,Volume).
type csvBar struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume float64 `csv:"Volume"`
}

// CSVProvider reads per-code CSV files named <code>.csv from a
// directory. A missing or empty file yields ErrUnavailable.
type CSVProvider struct {
	Dir string

	// Names optionally maps codes to display names.
	Names map[string]string
}

func NewCSVProvider(dir string, names map[string]string) *CSVProvider {
	return &CSVProvider{Dir: dir, Names: names}
}

func (p *CSVProvider) Bars(ctx context.Context, code string, start, end time.Time) (*market.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.Dir, code+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no data file", ErrUnavailable, code)
		}
		return nil, fmt.Errorf("feed: open %s: %w", path, err)
	}
	defer f.Close()

	var rows []csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", path, err)
	}

	start, end = market.Day(start), market.Day(end)
	bars := make([]market.Bar, 0, len(rows))
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("feed: %s: bad date %q: %w", path, r.Date, err)
		}
		d = market.Day(d)
		if d.Before(start) || d.After(end) {
			continue
		}
		bars = append(bars, market.Bar{
			Date:   d,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars in range", ErrUnavailable, code)
	}

	s, err := market.NewSeries(code, p.Names[code], bars)
	if err != nil {
		return nil, fmt.Errorf("feed: %s: %w", code, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("feed: %s: %w", code, err)
	}
	return s, nil
}
