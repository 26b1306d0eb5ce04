package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceSampleStd is the two-pass textbook formula.
func referenceSampleStd(xs []float64) float64 {
	n := float64(len(xs))
	var sum, sumSq float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	for _, x := range xs {
		sumSq += math.Pow(x-mean, 2)
	}
	return math.Sqrt(sumSq / (n - 1))
}

func TestCalculateSampleStdMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 2; n < 200; n += 7 {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = 50 + rng.NormFloat64()*10
		}
		got, err := CalculateSampleStd(xs)
		require.NoError(t, err)
		assert.InDelta(t, referenceSampleStd(xs), got, 1e-9)
	}
}

func TestCalculateSampleStdKnownValue(t *testing.T) {
	got, err := CalculateSampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.138089935, got, 1e-9)
}

func TestCalculateSampleStdTooFew(t *testing.T) {
	_, err := CalculateSampleStd([]float64{3})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = CalculateSampleStd(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCalculateMeanAndMinMax(t *testing.T) {
	mean, err := CalculateMean([]float64{1, 2, 3, 6})
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)

	low, high, err := CalculateMinMax([]float64{4, -1, 9, 0})
	require.NoError(t, err)
	assert.Equal(t, -1.0, low)
	assert.Equal(t, 9.0, high)

	_, err = CalculateMean(nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, _, err = CalculateMinMax(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCalculateDailyChanges(t *testing.T) {
	changes := CalculateDailyChanges([]float64{10, 11, 9.9})
	require.Len(t, changes, 2)
	assert.InDelta(t, 0.1, changes[0], 1e-12)
	assert.InDelta(t, -0.1, changes[1], 1e-12)

	assert.Nil(t, CalculateDailyChanges([]float64{10}))
	assert.Len(t, CalculateDailyChanges([]float64{0, 1, 2}), 1)
}

func TestCalculateMovingAverage(t *testing.T) {
	ma, err := CalculateMovingAverage([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5}, ma)

	ma, err = CalculateMovingAverage([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, ma)

	_, err = CalculateMovingAverage([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = CalculateMovingAverage([]float64{1, 2}, 0)
	assert.Error(t, err)
}
