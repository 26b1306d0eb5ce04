package alphavantage

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"stock-insight/src/helpers"
	"stock-insight/src/models"

	"github.com/shopspring/decimal"
)

var maxVolume = decimal.NewFromInt(math.MaxInt64)

// Fields every daily record must carry, without the API's "N. " prefix.
const (
	fieldOpen   = "open"
	fieldHigh   = "high"
	fieldLow    = "low"
	fieldClose  = "close"
	fieldVolume = "volume"
)

// -----------------------------------------------------------------------------

// Normalize converts the raw daily series into a sorted series. It is strict:
// a single unparseable date or field fails the whole series.
func (s *AlphaVantageSource) Normalize(raw models.MRawQuoteResponse) (models.MSeries, error) {
	series, err := Normalize(raw)
	if err != nil {
		s.Logger.Warning("Normalization failed: %v", err)
		return models.MSeries{}, err
	}
	if last, ok := series.Last(); ok {
		s.Logger.Info("Normalized %d sessions, latest %s", series.Len(), last.Date.Format(models.DateLayout))
	}
	return series, nil
}

// -----------------------------------------------------------------------------

// Normalize is the stateless form used by Source.Normalize.
func Normalize(raw models.MRawQuoteResponse) (models.MSeries, error) {
	if err := checkShape(raw); err != nil {
		return models.MSeries{}, err
	}

	var daily map[string]map[string]string
	if err := json.Unmarshal(raw[models.TimeSeriesDailyKey], &daily); err != nil {
		return models.MSeries{}, helpers.NewParseError("daily series is not a date -> field map", err)
	}

	bars := make([]models.MDailyBar, 0, len(daily))
	for dateStr, fields := range daily {
		bar, err := parseBar(dateStr, fields)
		if err != nil {
			return models.MSeries{}, err
		}
		bars = append(bars, bar)
	}

	series, err := models.NewSeries(bars)
	if err != nil {
		return models.MSeries{}, helpers.NewParseError("invalid daily series", err)
	}
	return series, nil
}

// -----------------------------------------------------------------------------

func parseBar(dateStr string, fields map[string]string) (models.MDailyBar, error) {
	date, err := time.ParseInLocation(models.DateLayout, dateStr, time.UTC)
	if err != nil {
		return models.MDailyBar{}, helpers.NewParseError(fmt.Sprintf("invalid date %q", dateStr), err)
	}

	values := make(map[string]string, len(fields))
	for k, v := range fields {
		values[fieldName(k)] = v
	}

	bar := models.MDailyBar{Date: date}
	targets := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{fieldOpen, &bar.Open},
		{fieldHigh, &bar.High},
		{fieldLow, &bar.Low},
		{fieldClose, &bar.Close},
	}
	for _, t := range targets {
		d, err := parseDecimal(dateStr, t.name, values)
		if err != nil {
			return models.MDailyBar{}, err
		}
		*t.dst = d
	}

	vol, err := parseDecimal(dateStr, fieldVolume, values)
	if err != nil {
		return models.MDailyBar{}, err
	}
	if !vol.IsInteger() || vol.IsNegative() {
		return models.MDailyBar{}, helpers.NewParseError(fmt.Sprintf("%s: volume %q is not a whole number", dateStr, values[fieldVolume]), nil)
	}
	if vol.GreaterThan(maxVolume) {
		return models.MDailyBar{}, helpers.NewParseError(fmt.Sprintf("%s: volume %q is out of range", dateStr, values[fieldVolume]), nil)
	}
	bar.Volume = vol.IntPart()

	return bar, nil
}

// -----------------------------------------------------------------------------

func parseDecimal(dateStr, name string, values map[string]string) (decimal.Decimal, error) {
	raw, ok := values[name]
	if !ok {
		return decimal.Decimal{}, helpers.NewParseError(fmt.Sprintf("%s: missing %s", dateStr, name), nil)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, helpers.NewParseError(fmt.Sprintf("%s: %s %q is not a number", dateStr, name, raw), err)
	}
	return d, nil
}

// -----------------------------------------------------------------------------

// fieldName strips the "4. " style prefix: "4. close" -> "close".
func fieldName(key string) string {
	if i := strings.Index(key, ". "); i >= 0 {
		key = key[i+2:]
	}
	return strings.ToLower(strings.TrimSpace(key))
}
