package core

import (
	"errors"
	"math"
)

// ErrNoData is returned by every reducer on an empty input.
var ErrNoData = errors.New("no data points")

// ErrTooFewPoints is returned when a statistic needs more points than given.
var ErrTooFewPoints = errors.New("not enough data points")

// -----------------------------------------------------------------------------

// CalculateMean computes the arithmetic mean.
func CalculateMean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrNoData
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data)), nil
}

// -----------------------------------------------------------------------------

// CalculateMinMax returns the smallest and largest value.
func CalculateMinMax(data []float64) (float64, float64, error) {
	if len(data) == 0 {
		return 0, 0, ErrNoData
	}

	low, high := data[0], data[0]
	for _, v := range data[1:] {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	return low, high, nil
}

// -----------------------------------------------------------------------------

// CalculateSampleStd computes the sample standard deviation (N-1 denominator).
// Fewer than two points is an error rather than 0 or NaN.
func CalculateSampleStd(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, ErrNoData
	}
	if len(data) < 2 {
		return 0, ErrTooFewPoints
	}

	mean, _ := CalculateMean(data)

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	return math.Sqrt(varianceSum / float64(len(data)-1)), nil
}
