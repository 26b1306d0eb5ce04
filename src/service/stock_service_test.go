package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"stock-insight/src/data_source/alphavantage"
	"stock-insight/src/helpers"
	"stock-insight/src/logger"
	"stock-insight/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeSessions = `{"Time Series (Daily)": {
	"2024-01-03": {"1. open": "11", "2. high": "12", "3. low": "10", "4. close": "12", "5. volume": "300"},
	"2024-01-01": {"1. open": "10", "2. high": "11", "3. low": "9", "4. close": "10", "5. volume": "100"},
	"2024-01-02": {"1. open": "10", "2. high": "11", "3. low": "9", "4. close": "11", "5. volume": "200"}
}}`

type staticKey struct {
	key string
	err error
}

func (k staticKey) APIKey(context.Context) (string, error) { return k.key, k.err }

type fakeSource struct {
	body      string
	err       error
	gotSymbol string
	gotKey    string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(_ context.Context, symbol, apiKey string) (models.MRawQuoteResponse, error) {
	f.gotSymbol, f.gotKey = symbol, apiKey
	if f.err != nil {
		return nil, f.err
	}
	var raw models.MRawQuoteResponse
	if err := json.Unmarshal([]byte(f.body), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (f *fakeSource) Normalize(raw models.MRawQuoteResponse) (models.MSeries, error) {
	return alphavantage.Normalize(raw)
}

type fakeRenderer struct{ err error }

func (r fakeRenderer) Render(series models.MSeries, label string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []string{"data:image/png;base64,AAAA"}, nil
}

type memRecorder struct {
	mu   sync.Mutex
	recs []models.MLookupRecord
	err  error
}

func (m *memRecorder) Initialize() error { return nil }
func (m *memRecorder) Record(r models.MLookupRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, r)
	return m.err
}
func (m *memRecorder) Recent(int) ([]models.MLookupRecord, error) { return m.recs, nil }
func (m *memRecorder) CleanupOldData() error                        { return nil }
func (m *memRecorder) Close() error                                 { return nil }

type eventSink struct{ events []models.MLookupEvent }

func (e *eventSink) Broadcast(ev models.MLookupEvent) { e.events = append(e.events, ev) }

func newTestService(src *fakeSource, key staticKey, renderer fakeRenderer) (*StockService, *memRecorder, *eventSink) {
	rec := &memRecorder{}
	sink := &eventSink{}
	svc := NewStockService(key, src, renderer, rec, sink, logger.NewLoggerTo(io.Discard, nil, "test"))
	svc.Now = func() time.Time { return time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC) }
	return svc, rec, sink
}

func TestLookupSuccess(t *testing.T) {
	src := &fakeSource{body: threeSessions}
	svc, rec, sink := newTestService(src, staticKey{key: "secret"}, fakeRenderer{})

	report, err := svc.Lookup(context.Background(), "  ibm ")
	require.NoError(t, err)

	assert.Equal(t, "IBM", src.gotSymbol)
	assert.Equal(t, "secret", src.gotKey)
	assert.Equal(t, "IBM", report.Symbol)
	assert.Len(t, report.PlotURLs, 1)
	assert.InDelta(t, 11.0, report.Stats.Mean, 1e-9)
	assert.Equal(t, 12.0, report.Stats.Latest)
	assert.Equal(t, 10.0, report.Stats.Min)
	require.NotNil(t, report.Stats.StdDev)
	assert.InDelta(t, 1.0, *report.Stats.StdDev, 1e-9)
	assert.Equal(t, "xnys", report.Market.MIC)
	assert.Equal(t, 1, report.Market.SessionsBehind)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, models.OutcomeOK, rec.recs[0].Outcome)
	assert.Equal(t, 3, rec.recs[0].Records)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "IBM", sink.events[0].Symbol)
	assert.NotNil(t, sink.events[0].Stats)
}

func TestLookupFailureKinds(t *testing.T) {
	cases := []struct {
		name     string
		src      *fakeSource
		key      staticKey
		renderer fakeRenderer
		kind     helpers.ErrorKind
	}{
		{"credential", &fakeSource{body: threeSessions}, staticKey{err: helpers.NewCredentialMissingError("no key", nil)}, fakeRenderer{}, helpers.KindCredentialMissing},
		{"transport", &fakeSource{err: helpers.NewTransportError("down", 503, nil)}, staticKey{key: "k"}, fakeRenderer{}, helpers.KindTransport},
		{"shape", &fakeSource{body: `{"Note": "rate limited"}`}, staticKey{key: "k"}, fakeRenderer{}, helpers.KindUnexpectedShape},
		{"parse", &fakeSource{body: `{"Time Series (Daily)": {"2024-01-01": {"close": "N/A"}}}`}, staticKey{key: "k"}, fakeRenderer{}, helpers.KindParse},
		{"empty", &fakeSource{body: `{"Time Series (Daily)": {}}`}, staticKey{key: "k"}, fakeRenderer{}, helpers.KindEmptySeries},
		{"render", &fakeSource{body: threeSessions}, staticKey{key: "k"}, fakeRenderer{err: helpers.NewRenderError("boom", nil)}, helpers.KindRender},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, rec, sink := newTestService(tc.src, tc.key, tc.renderer)

			report, err := svc.Lookup(context.Background(), "IBM")

			assert.Nil(t, report)
			assert.Equal(t, tc.kind, helpers.KindOf(err))
			require.Len(t, rec.recs, 1)
			assert.Equal(t, models.OutcomeError, rec.recs[0].Outcome)
			assert.Equal(t, string(tc.kind), rec.recs[0].ErrorKind)
			require.Len(t, sink.events, 1)
			assert.Nil(t, sink.events[0].Stats)
		})
	}
}

func TestLookupRejectsInvalidSymbolBeforeFetching(t *testing.T) {
	src := &fakeSource{body: threeSessions}
	svc, rec, _ := newTestService(src, staticKey{key: "k"}, fakeRenderer{})

	for _, symbol := range []string{"", "   ", "IBM; DROP", "ABCDEFGHIJKLMNOPQ"} {
		_, err := svc.Lookup(context.Background(), symbol)
		assert.Equal(t, helpers.KindInvalidSymbol, helpers.KindOf(err), symbol)
	}
	assert.Empty(t, src.gotSymbol)
	assert.Empty(t, rec.recs)
}

func TestLookupRecorderFailureIsNotSurfaced(t *testing.T) {
	svc, rec, _ := newTestService(&fakeSource{body: threeSessions}, staticKey{key: "k"}, fakeRenderer{})
	rec.err = errors.New("disk full")

	_, err := svc.Lookup(context.Background(), "IBM")
	assert.NoError(t, err)
}

func TestLookupWithoutOptionalCollaborators(t *testing.T) {
	svc := NewStockService(staticKey{key: "k"}, &fakeSource{body: threeSessions}, fakeRenderer{}, nil, nil,
		logger.NewLoggerTo(io.Discard, nil, "test"))

	_, err := svc.Lookup(context.Background(), "BRK.B")
	assert.NoError(t, err)
}

func TestNormalizeSymbol(t *testing.T) {
	got, err := NormalizeSymbol(" tsco.l ")
	require.NoError(t, err)
	assert.Equal(t, "TSCO.L", got)

	got, err = NormalizeSymbol("^gspc")
	require.NoError(t, err)
	assert.Equal(t, "^GSPC", got)
}
