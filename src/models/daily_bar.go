package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TimeSeriesDailyKey is the member of the quote API body holding the per-date series.
const TimeSeriesDailyKey = "Time Series (Daily)"

// DateLayout is the layout of the date keys in the daily series.
const DateLayout = "2006-01-02"

// MRawQuoteResponse is the untyped top-level JSON object returned by the quote API.
type MRawQuoteResponse map[string]json.RawMessage

// MDailyBar is one trading session of the normalized series.
type MDailyBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}
