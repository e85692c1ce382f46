package chart

import (
	"time"

	"market-analyzer/src/analysis/core"
	"market-analyzer/src/models"
)

const (
	Title           = "Stock Price & Volume Chart with Predictions"
	Height          = 800
	ForecastColor   = "#2E7D32"
	VolumeColor     = "rgba(30, 136, 229, 0.5)"
	GridColor       = "#E0E0E0"
	priceRowShare   = 0.7
	verticalSpacing = 0.03
)

// Composer builds the dashboard figure: candles over volume, sharing the
// date axis, with the forecast as a dashed line on the price panel.
type Composer struct{}

// -----------------------------------------------------------------------------

func NewComposer() *Composer {
	return &Composer{}
}

// -----------------------------------------------------------------------------

// Compose renders history and, when non-nil, forecast. Bars with a missing
// field are left out of the candles so the document stays valid JSON.
func (c *Composer) Compose(history models.MPriceHistory, forecast *models.MForecastSeries) *models.MChartFigure {
	candles := models.MChartTrace{Type: "candlestick", Name: "OHLC", XAxis: "x", YAxis: "y"}
	volume := models.MChartTrace{Type: "bar", Name: "Volume", XAxis: "x2", YAxis: "y2", Marker: &models.MChartColor{Color: VolumeColor}}

	for _, b := range history.Bars {
		day := b.Date.Format(time.DateOnly)
		if b.IsComplete() {
			candles.X = append(candles.X, day)
			candles.Open = append(candles.Open, b.Open)
			candles.High = append(candles.High, b.High)
			candles.Low = append(candles.Low, b.Low)
			candles.Close = append(candles.Close, b.Close)
		}
		if core.IsFinite(b.Volume) {
			volume.X = append(volume.X, day)
			volume.Y = append(volume.Y, b.Volume)
		}
	}

	traces := []models.MChartTrace{candles}
	if forecast.Len() > 0 {
		line := models.MChartTrace{
			Type:  "scatter",
			Name:  "Predicted",
			Mode:  "lines",
			XAxis: "x",
			YAxis: "y",
			Line:  &models.MChartLine{Color: ForecastColor, Dash: "dash"},
		}
		for _, p := range forecast.Points {
			line.X = append(line.X, p.Date.Format(time.DateOnly))
			line.Y = append(line.Y, p.PredictedClose)
		}
		traces = append(traces, line)
	}
	traces = append(traces, volume)

	return &models.MChartFigure{Data: traces, Layout: layout()}
}

// -----------------------------------------------------------------------------

func layout() models.MChartLayout {
	volumeTop := (1 - verticalSpacing) * (1 - priceRowShare)
	hide := false

	grid := func(a models.MChartAxis) models.MChartAxis {
		a.ShowGrid = true
		a.GridWidth = 1
		a.GridColor = GridColor
		return a
	}

	return models.MChartLayout{
		Title:        Title,
		Height:       Height,
		Template:     "plotly",
		ShowLegend:   true,
		Legend:       models.MChartLegend{YAnchor: "top", Y: 0.99, XAnchor: "left", X: 0.01},
		Margin:       models.MChartMargin{L: 50, R: 50, T: 50, B: 50},
		PaperBgColor: "white",
		PlotBgColor:  "white",
		XAxis: grid(models.MChartAxis{
			Domain:       []float64{0, 1},
			Anchor:       "y",
			Matches:      "x2",
			RangeSlider:  &models.MVisible{Visible: false},
			ShowTickText: &hide,
		}),
		XAxis2: grid(models.MChartAxis{Domain: []float64{0, 1}, Anchor: "y2"}),
		YAxis:  grid(models.MChartAxis{Domain: []float64{volumeTop + verticalSpacing, 1}, Anchor: "x"}),
		YAxis2: grid(models.MChartAxis{Domain: []float64{0, volumeTop}, Anchor: "x2"}),
	}
}
