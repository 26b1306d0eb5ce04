package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"stock-insight/src/analysis"
	"stock-insight/src/helpers"
	"stock-insight/src/interfaces"
	"stock-insight/src/logger"
	"stock-insight/src/models"
	"stock-insight/src/utils"
)

const maxSymbolLength = 16

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]+$`)

// -----------------------------------------------------------------------------

// StockService runs one lookup end to end: credential, fetch, normalize,
// statistics, charts and market annotation.
type StockService struct {
	Credentials interfaces.ICredentialProvider
	Source      interfaces.IQuoteSource
	Renderer    interfaces.IChartRenderer
	Recorder    interfaces.ILookupRecorder  // optional
	Broadcaster interfaces.IEventBroadcaster // optional
	Logger      *logger.Logger

	// Now is the clock used for the market annotation and the lookup log.
	Now func() time.Time
}

// -----------------------------------------------------------------------------

func NewStockService(
	creds interfaces.ICredentialProvider,
	source interfaces.IQuoteSource,
	renderer interfaces.IChartRenderer,
	recorder interfaces.ILookupRecorder,
	broadcaster interfaces.IEventBroadcaster,
	log *logger.Logger,
) *StockService {
	return &StockService{
		Credentials: creds,
		Source:      source,
		Renderer:    renderer,
		Recorder:    recorder,
		Broadcaster: broadcaster,
		Logger:      log.Named("StockService"),
		Now:         time.Now,
	}
}

// -----------------------------------------------------------------------------

// NormalizeSymbol trims and upper-cases a ticker, rejecting anything that is
// empty, too long or outside the ticker alphabet.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", helpers.NewValidationError("Symbol is required")
	}
	if len(symbol) > maxSymbolLength {
		return "", helpers.NewValidationError("Symbol is too long")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", helpers.NewValidationError("Symbol contains invalid characters")
	}
	return strings.ToUpper(symbol), nil
}

// -----------------------------------------------------------------------------

// Lookup produces the report for one symbol. Every failure carries a
// helpers.ErrorKind; the lookup log and live feed are updated either way.
func (s *StockService) Lookup(ctx context.Context, rawSymbol string) (*models.MStockReport, error) {
	started := s.Now()

	symbol, err := NormalizeSymbol(rawSymbol)
	if err != nil {
		s.Logger.Warning("Rejected symbol %q: %v", rawSymbol, err)
		return nil, err
	}

	report, stats, err := s.lookup(ctx, symbol)
	s.finish(symbol, started, stats, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// -----------------------------------------------------------------------------

func (s *StockService) lookup(ctx context.Context, symbol string) (*models.MStockReport, *models.MSummaryStatistics, error) {
	apiKey, err := s.Credentials.APIKey(ctx)
	if err != nil {
		s.Logger.Error("Credential unavailable: %v", err)
		return nil, nil, err
	}

	s.Logger.Debug("[%s] Fetching from %s", symbol, s.Source.Name())
	raw, err := s.Source.Fetch(ctx, symbol, apiKey)
	if err != nil {
		return nil, nil, err
	}

	series, err := s.Source.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	s.Logger.Debug("[%s] Normalized %d sessions", symbol, series.Len())

	stats, err := analysis.Compute(series)
	if err != nil {
		return nil, nil, err
	}

	plots, err := s.Renderer.Render(series, symbol)
	if err != nil {
		return nil, &stats, err
	}
	s.Logger.Debug("[%s] Rendered %d chart(s)", symbol, len(plots))

	report := &models.MStockReport{
		Symbol:   symbol,
		PlotURLs: plots,
		Stats:    stats,
		Market:   s.marketStatus(symbol, series),
	}
	return report, &stats, nil
}

// -----------------------------------------------------------------------------

func (s *StockService) marketStatus(symbol string, series models.MSeries) models.MMarketStatus {
	tc := utils.GetCalendar(symbol)
	status := models.MMarketStatus{MIC: tc.MIC}

	if last, ok := series.Last(); ok {
		status.SessionsBehind = tc.SessionsSince(last.Date, s.Now())
	}
	if status.SessionsBehind > 0 {
		s.Logger.Info("[%s] Latest bar is %d session(s) behind on %s", symbol, status.SessionsBehind, tc.MIC)
	}
	return status
}

// -----------------------------------------------------------------------------

// finish logs the outcome, records it and pushes it to the live feed. Neither
// side effect can fail the lookup.
func (s *StockService) finish(symbol string, started time.Time, stats *models.MSummaryStatistics, err error) {
	latency := s.Now().Sub(started)

	rec := models.MLookupRecord{
		Symbol:      symbol,
		RequestedAt: started.UTC(),
		Outcome:     models.OutcomeOK,
		LatencyMS:   latency.Milliseconds(),
	}
	if stats != nil {
		rec.Records = stats.Count
	}

	if err != nil {
		rec.Outcome = models.OutcomeError
		rec.ErrorKind = string(helpers.KindOf(err))
		s.logFailure(symbol, err)
	} else {
		s.Logger.Info("[%s] Lookup OK (%d sessions, %dms)", symbol, rec.Records, rec.LatencyMS)
	}

	if s.Recorder != nil {
		if rerr := s.Recorder.Record(rec); rerr != nil {
			s.Logger.Warning("[%s] Failed to record lookup: %v", symbol, rerr)
		}
	}

	if s.Broadcaster != nil {
		event := models.MLookupEvent{
			Type:      "UPDATE",
			Symbol:    symbol,
			Outcome:   rec.Outcome,
			ErrorKind: rec.ErrorKind,
			Timestamp: started.Unix(),
		}
		if err == nil {
			event.Stats = stats
		}
		s.Broadcaster.Broadcast(event)
	}
}

// -----------------------------------------------------------------------------

func (s *StockService) logFailure(symbol string, err error) {
	kind := helpers.KindOf(err)

	var shapeErr *helpers.UnexpectedShapeError
	if errors.As(err, &shapeErr) && shapeErr.UpstreamNote != "" {
		s.Logger.Warning("[%s] Lookup failed (%s): upstream said %q", symbol, kind, shapeErr.UpstreamNote)
		return
	}

	if helpers.HTTPStatus(kind) >= 500 {
		s.Logger.Error("[%s] Lookup failed (%s): %v", symbol, kind, err)
		return
	}
	s.Logger.Warning("[%s] Lookup failed (%s): %v", symbol, kind, err)
}
