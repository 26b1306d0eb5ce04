package core

import "errors"

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates percentage change as a fraction.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous
}

// -----------------------------------------------------------------------------

// CalculateDailyChanges returns (c[i]-c[i-1])/c[i-1] for i >= 1. Pairs with a
// zero previous close are skipped since the change is undefined.
func CalculateDailyChanges(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, CalculateChangePercent(closes[i], closes[i-1]))
	}
	return out
}

// -----------------------------------------------------------------------------

// CalculateMovingAverage returns the trailing simple moving average for every
// index where a full window is available. result[k] belongs to index k+window-1.
func CalculateMovingAverage(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	if len(values) < window {
		return nil, ErrTooFewPoints
	}

	out := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}
