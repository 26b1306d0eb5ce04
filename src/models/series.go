package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrDuplicateDate is returned by NewSeries when two bars share a session date.
var ErrDuplicateDate = errors.New("duplicate session date")

// -----------------------------------------------------------------------------

// MSeries is a daily series sorted strictly ascending by date.
// The only way to obtain one is NewSeries, so holders can rely on the order.
type MSeries struct {
	bars []MDailyBar
}

// -----------------------------------------------------------------------------

// NewSeries copies bars, sorts them by date and rejects duplicate dates.
func NewSeries(bars []MDailyBar) (MSeries, error) {
	sorted := make([]MDailyBar, len(bars))
	copy(sorted, bars)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if !sorted[i].Date.After(sorted[i-1].Date) {
			return MSeries{}, fmt.Errorf("%w: %s", ErrDuplicateDate, sorted[i].Date.Format(DateLayout))
		}
	}

	return MSeries{bars: sorted}, nil
}

// -----------------------------------------------------------------------------

func (s MSeries) Len() int {
	return len(s.bars)
}

// -----------------------------------------------------------------------------

// Bars returns a copy of the bars in chronological order.
func (s MSeries) Bars() []MDailyBar {
	out := make([]MDailyBar, len(s.bars))
	copy(out, s.bars)
	return out
}

// -----------------------------------------------------------------------------

// Last returns the chronologically last bar.
func (s MSeries) Last() (MDailyBar, bool) {
	if len(s.bars) == 0 {
		return MDailyBar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// -----------------------------------------------------------------------------

// Closes returns the close column as float64 in chronological order.
func (s MSeries) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close.InexactFloat64()
	}
	return out
}

// -----------------------------------------------------------------------------

// Volumes returns the volume column as float64 in chronological order.
func (s MSeries) Volumes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// -----------------------------------------------------------------------------

// Dates returns the session dates in chronological order.
func (s MSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Date
	}
	return out
}
