package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stock-insight/src/helpers"
	"stock-insight/src/interfaces"
	"stock-insight/src/logger"
	"stock-insight/src/models"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// The only function whose body carries models.TimeSeriesDailyKey
	dailyFunction = "TIME_SERIES_DAILY"
)

// Members the API uses instead of the series for notices and errors.
var upstreamNoteKeys = []string{"Note", "Information", "Error Message"}

type AlphaVantageSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
	baseURL string
}

// -----------------------------------------------------------------------------

func NewAlphaVantageSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *AlphaVantageSource {
	s := &AlphaVantageSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log.Named("AlphaVantageSource"),
		baseURL: cfg.AlphaVantage.BaseURL,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	return s
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) Name() string {
	return "alphavantage"
}

// -----------------------------------------------------------------------------

// Fetch issues one TIME_SERIES_DAILY request. A 200 body without the daily
// series is an UnexpectedShapeError whether the symbol is unknown or the key
// is rate limited; the API signals both the same way.
func (s *AlphaVantageSource) Fetch(ctx context.Context, symbol, apiKey string) (models.MRawQuoteResponse, error) {
	params := map[string]string{
		"function": dailyFunction,
		"symbol":   symbol,
		"apikey":   apiKey,
	}

	body, err := s.Network.Get(ctx, s.baseURL, params)
	if err != nil {
		s.Logger.Error("Failed to retrieve data for %s: %v", symbol, err)
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	var raw models.MRawQuoteResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		s.Logger.Warning("Response for %s is not a JSON object: %v", symbol, err)
		return nil, helpers.NewUnexpectedShapeError(fmt.Sprintf("response for %s is not a JSON object", symbol), "")
	}

	if err := checkShape(raw); err != nil {
		s.Logger.Warning("Data not in expected format for %s: %v", symbol, err)
		return nil, err
	}

	s.Logger.Debug("Fetched raw series for %s (%d bytes)", symbol, len(body))
	return raw, nil
}

// -----------------------------------------------------------------------------

func checkShape(raw models.MRawQuoteResponse) error {
	if _, ok := raw[models.TimeSeriesDailyKey]; ok {
		return nil
	}
	return helpers.NewUnexpectedShapeError(
		fmt.Sprintf("response has no %q member", models.TimeSeriesDailyKey),
		upstreamNote(raw),
	)
}

// -----------------------------------------------------------------------------

func upstreamNote(raw models.MRawQuoteResponse) string {
	var notes []string
	for _, k := range upstreamNoteKeys {
		msg, ok := raw[k]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(msg, &text); err != nil {
			text = string(msg)
		}
		notes = append(notes, k+": "+text)
	}
	return strings.Join(notes, "; ")
}
