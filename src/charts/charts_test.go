package charts

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"stock-insight/src/helpers"
	"stock-insight/src/logger"
	"stock-insight/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T, n int) models.MSeries {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MDailyBar, n)
	for i := range bars {
		price := decimal.NewFromFloat(100 + float64(i%7)*1.5 - float64(i%3))
		bars[i] = models.MDailyBar{
			Date: start.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price,
			Volume: int64(1000 + i*10),
		}
	}
	s, err := models.NewSeries(bars)
	require.NoError(t, err)
	return s
}

func newTestRenderer(cfg models.MChartsConfig) *Renderer {
	cfg.WidthInches, cfg.HeightInches = 4, 2
	return NewRenderer(cfg, logger.NewLoggerTo(io.Discard, nil, "test"))
}

func decodePNG(t *testing.T, uri string) {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestRenderFullModeProducesFourCharts(t *testing.T) {
	r := newTestRenderer(models.MChartsConfig{})

	urls, err := r.Render(testSeries(t, 40), "IBM")

	require.NoError(t, err)
	require.Len(t, urls, 4)
	for _, u := range urls {
		decodePNG(t, u)
	}
}

func TestRenderCombinedModeProducesOneChart(t *testing.T) {
	r := newTestRenderer(models.MChartsConfig{Mode: ModeCombined})

	urls, err := r.Render(testSeries(t, 10), "IBM")

	require.NoError(t, err)
	require.Len(t, urls, 1)
	decodePNG(t, urls[0])
}

func TestRenderShortSeriesSkipsHistogram(t *testing.T) {
	r := newTestRenderer(models.MChartsConfig{MovingAverageWindow: 5})

	urls, err := r.Render(testSeries(t, 1), "IBM")

	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestRenderEmptySeriesFails(t *testing.T) {
	r := newTestRenderer(models.MChartsConfig{})

	_, err := r.Render(models.MSeries{}, "IBM")

	assert.Equal(t, helpers.KindRender, helpers.KindOf(err))
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer(models.MChartsConfig{}, logger.NewLoggerTo(io.Discard, nil, "test"))
	assert.Equal(t, ModeFull, r.Mode)
	assert.Equal(t, DefaultMovingAverageWindow, r.Window)
	assert.Equal(t, DefaultHistogramBins, r.Bins)
}
