package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"

	"stock-insight/src/analysis/core"
	"stock-insight/src/helpers"
	"stock-insight/src/logger"
	"stock-insight/src/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	ModeFull     = "full"
	ModeCombined = "combined"

	DefaultMovingAverageWindow = 20
	DefaultHistogramBins       = 50

	dataURIPrefix = "data:image/png;base64,"
	dateFormat    = "2006-01-02"
)

var (
	colorClose  = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	colorFaded  = color.NRGBA{R: 0, G: 0, B: 255, A: 128}
	colorVolume = color.NRGBA{R: 255, G: 165, B: 0, A: 255}
	colorMA     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	colorHist   = color.NRGBA{R: 0, G: 128, B: 0, A: 178}
)

// -----------------------------------------------------------------------------

// Renderer draws PNG charts with gonum/plot and returns them as data URIs.
type Renderer struct {
	Mode   string
	Window int
	Bins   int
	Width  vg.Length
	Height vg.Length
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRenderer(cfg models.MChartsConfig, log *logger.Logger) *Renderer {
	r := &Renderer{
		Mode:   cfg.Mode,
		Window: cfg.MovingAverageWindow,
		Bins:   cfg.HistogramBins,
		Width:  vg.Length(cfg.WidthInches) * vg.Inch,
		Height: vg.Length(cfg.HeightInches) * vg.Inch,
		Logger: log.Named("ChartRenderer"),
	}
	if r.Mode == "" {
		r.Mode = ModeFull
	}
	if r.Window <= 0 {
		r.Window = DefaultMovingAverageWindow
	}
	if r.Bins <= 0 {
		r.Bins = DefaultHistogramBins
	}
	if r.Width <= 0 {
		r.Width = 10 * vg.Inch
	}
	if r.Height <= 0 {
		r.Height = 4 * vg.Inch
	}
	return r
}

// -----------------------------------------------------------------------------

// Render draws the charts of the configured mode in a fixed order. Charts that
// have nothing to show for this series are skipped.
func (r *Renderer) Render(series models.MSeries, label string) ([]string, error) {
	if series.Len() == 0 {
		return nil, helpers.NewRenderError("cannot chart an empty series", nil)
	}

	type builder struct {
		name  string
		build func(models.MSeries, string) (*plot.Plot, error)
	}

	var builders []builder
	if r.Mode == ModeCombined {
		builders = []builder{{"combined", r.combinedPlot}}
	} else {
		builders = []builder{
			{"closing_prices", r.closingPricePlot},
			{"trading_volume", r.volumePlot},
			{"moving_average", r.movingAveragePlot},
			{"daily_change_histogram", r.dailyChangePlot},
		}
	}

	urls := make([]string, 0, len(builders))
	for _, b := range builders {
		p, err := b.build(series, label)
		if err != nil {
			return nil, helpers.NewRenderError("build "+b.name, err)
		}
		if p == nil {
			r.Logger.Debug("Skipping %s chart for %s: not enough data", b.name, label)
			continue
		}
		uri, err := r.encode(p)
		if err != nil {
			return nil, helpers.NewRenderError("encode "+b.name, err)
		}
		urls = append(urls, uri)
	}

	r.Logger.Debug("Rendered %d charts for %s", len(urls), label)
	return urls, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) encode(p *plot.Plot) (string, error) {
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// -----------------------------------------------------------------------------
// Individual charts
// -----------------------------------------------------------------------------

func (r *Renderer) combinedPlot(series models.MSeries, label string) (*plot.Plot, error) {
	p, err := r.closingPricePlot(series, label)
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("Stock Closing Prices of %s Over Time", label)
	p.Y.Label.Text = "Price (USD)"
	return p, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) closingPricePlot(series models.MSeries, label string) (*plot.Plot, error) {
	p := newTimePlot(fmt.Sprintf("%s Closing Prices", label), "Price")

	line, err := plotter.NewLine(closeXYs(series))
	if err != nil {
		return nil, err
	}
	line.Color = colorClose
	p.Add(line)
	p.Legend.Add("Closing Price", line)
	return p, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) volumePlot(series models.MSeries, label string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Trading Volume", label)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Volume"
	p.Add(plotter.NewGrid())

	n := series.Len()
	barWidth := r.Width * 0.8 / vg.Length(n)
	if barWidth < 1 {
		barWidth = 1
	}

	bars, err := plotter.NewBarChart(plotter.Values(series.Volumes()), barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = colorVolume
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.X.Tick.Marker = indexDateTicks(series)
	return p, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) movingAveragePlot(series models.MSeries, label string) (*plot.Plot, error) {
	p := newTimePlot(fmt.Sprintf("%s Moving Average", label), "Price")

	closes := closeXYs(series)
	line, err := plotter.NewLine(closes)
	if err != nil {
		return nil, err
	}
	line.Color = colorFaded
	p.Add(line)
	p.Legend.Add("Closing Price", line)

	ma, err := core.CalculateMovingAverage(series.Closes(), r.Window)
	if err != nil {
		// fewer sessions than the window: the average is undefined everywhere
		return p, nil
	}

	maXYs := make(plotter.XYs, len(ma))
	for i, v := range ma {
		maXYs[i].X = closes[i+r.Window-1].X
		maXYs[i].Y = v
	}
	maLine, err := plotter.NewLine(maXYs)
	if err != nil {
		return nil, err
	}
	maLine.Color = colorMA
	p.Add(maLine)
	p.Legend.Add(fmt.Sprintf("%d-Day Moving Average", r.Window), maLine)
	return p, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) dailyChangePlot(series models.MSeries, label string) (*plot.Plot, error) {
	changes := core.CalculateDailyChanges(series.Closes())
	if len(changes) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Daily Price Changes", label)
	p.X.Label.Text = "Percentage Change"
	p.Y.Label.Text = "Frequency"
	p.Add(plotter.NewGrid())

	hist, err := plotter.NewHist(plotter.Values(changes), r.Bins)
	if err != nil {
		return nil, err
	}
	hist.FillColor = colorHist
	hist.LineStyle.Width = 0
	p.Add(hist)
	return p, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// -----------------------------------------------------------------------------

func closeXYs(series models.MSeries) plotter.XYs {
	dates := series.Dates()
	closes := series.Closes()
	xys := make(plotter.XYs, len(dates))
	for i := range dates {
		xys[i].X = float64(dates[i].Unix())
		xys[i].Y = closes[i]
	}
	return xys
}

// -----------------------------------------------------------------------------

// indexDateTicks labels bar positions (0..n-1) with their session dates.
func indexDateTicks(series models.MSeries) plot.Ticker {
	dates := series.Dates()
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		const maxLabels = 6
		step := int(math.Ceil(float64(len(dates)) / maxLabels))
		if step < 1 {
			step = 1
		}
		var ticks []plot.Tick
		for i := 0; i < len(dates); i += step {
			ticks = append(ticks, plot.Tick{Value: float64(i), Label: dates[i].Format(dateFormat)})
		}
		return ticks
	})
}
