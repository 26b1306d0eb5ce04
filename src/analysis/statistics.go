package analysis

import (
	"errors"

	"stock-insight/src/analysis/core"
	"stock-insight/src/helpers"
	"stock-insight/src/models"
)

// Mean, Max, Min, StdDev and Latest operate on the close column of a sorted
// series and never mutate it. An empty series fails every one of them.

// -----------------------------------------------------------------------------

func Mean(series models.MSeries) (float64, error) {
	v, err := core.CalculateMean(series.Closes())
	return v, mapErr(err, "mean")
}

// -----------------------------------------------------------------------------

func Max(series models.MSeries) (float64, error) {
	_, high, err := core.CalculateMinMax(series.Closes())
	return high, mapErr(err, "max")
}

// -----------------------------------------------------------------------------

func Min(series models.MSeries) (float64, error) {
	low, _, err := core.CalculateMinMax(series.Closes())
	return low, mapErr(err, "min")
}

// -----------------------------------------------------------------------------

// StdDev is the sample standard deviation; fewer than two sessions fail with
// an InsufficientDataError.
func StdDev(series models.MSeries) (float64, error) {
	v, err := core.CalculateSampleStd(series.Closes())
	return v, mapErr(err, "std_dev")
}

// -----------------------------------------------------------------------------

// Latest is the close of the chronologically last session.
func Latest(series models.MSeries) (float64, error) {
	last, ok := series.Last()
	if !ok {
		return 0, mapErr(core.ErrNoData, "latest")
	}
	return last.Close.InexactFloat64(), nil
}

// -----------------------------------------------------------------------------

// Compute derives the summary statistics. An empty series is an error; a
// single-session series succeeds with a nil StdDev.
func Compute(series models.MSeries) (models.MSummaryStatistics, error) {
	mean, err := Mean(series)
	if err != nil {
		return models.MSummaryStatistics{}, err
	}
	high, _ := Max(series)
	low, _ := Min(series)
	latest, _ := Latest(series)

	stats := models.MSummaryStatistics{
		Mean:   mean,
		Max:    high,
		Min:    low,
		Latest: latest,
		Count:  series.Len(),
	}

	if std, err := StdDev(series); err == nil {
		stats.StdDev = &std
	}

	dates := series.Dates()
	stats.FirstDate = dates[0].Format(models.DateLayout)
	stats.LastDate = dates[len(dates)-1].Format(models.DateLayout)

	return stats, nil
}

// -----------------------------------------------------------------------------

func mapErr(err error, stat string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrNoData):
		return helpers.NewEmptySeriesError(stat + " of an empty series is undefined")
	case errors.Is(err, core.ErrTooFewPoints):
		return helpers.NewInsufficientDataError(stat + " needs at least two sessions")
	default:
		return err
	}
}
