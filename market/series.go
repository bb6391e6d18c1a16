package market

import (
	"fmt"
	"sort"
	"time"
)

// Series is the ordered daily history of one instrument (or of the
// benchmark index). Bars are strictly chronological with unique dates.
type Series struct {
	Code string
	Name string
	Bars []Bar

	byDate map[time.Time]int
}

// NewSeries builds a Series, sorting bars by date and indexing them.
// Duplicate dates are an error.
func NewSeries(code, name string, bars []Bar) (*Series, error) {
	s := &Series{Code: code, Name: name, Bars: bars}

	sort.Slice(s.Bars, func(i, j int) bool {
		return s.Bars[i].Date.Before(s.Bars[j].Date)
	})

	s.byDate = make(map[time.Time]int, len(s.Bars))
	for i := range s.Bars {
		s.Bars[i].Date = Day(s.Bars[i].Date)
		d := s.Bars[i].Date
		if _, dup := s.byDate[d]; dup {
			return nil, fmt.Errorf("series %s: duplicate date %s", code, d.Format("2006-01-02"))
		}
		s.byDate[d] = i
	}
	return s, nil
}

func (s *Series) Len() int { return len(s.Bars) }

// Index returns the bar offset for a calendar date, if present.
func (s *Series) Index(date time.Time) (int, bool) {
	i, ok := s.byDate[Day(date)]
	return i, ok
}

// At returns the i-th bar. Callers are expected to stay in range.
func (s *Series) At(i int) Bar { return s.Bars[i] }

// Last returns the most recent bar.
func (s *Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Slice returns the sub-series covering [start, end] inclusive.
// The returned series shares bar storage with the receiver.
func (s *Series) Slice(start, end time.Time) (*Series, error) {
	start, end = Day(start), Day(end)
	lo := sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Date.Before(start) })
	hi := sort.Search(len(s.Bars), func(i int) bool { return s.Bars[i].Date.After(end) })
	return NewSeries(s.Code, s.Name, s.Bars[lo:hi])
}

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Validate checks every bar plus chronological ordering.
func (s *Series) Validate() error {
	for i, b := range s.Bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("series %s: %w", s.Code, err)
		}
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("series %s: bars out of order at %s", s.Code, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}
