package chart

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"market-analyzer/src/interfaces"
	"market-analyzer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ interfaces.IChartComposer = (*Composer)(nil)

func sampleHistory() models.MPriceHistory {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, 5)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.MPriceBar{Date: start.AddDate(0, 0, i), Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 1000 * float64(i+1)}
	}
	return models.MPriceHistory{Symbol: "TEST", Bars: bars}
}

func TestComposeWithoutForecast(t *testing.T) {
	fig := NewComposer().Compose(sampleHistory(), nil)

	require.Len(t, fig.Data, 2)
	candles, volume := fig.Data[0], fig.Data[1]

	assert.Equal(t, "candlestick", candles.Type)
	assert.Equal(t, []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"}, candles.X)
	assert.Equal(t, 104.0, candles.Close[4])

	assert.Equal(t, "bar", volume.Type)
	assert.Equal(t, "y2", volume.YAxis)
	assert.Equal(t, VolumeColor, volume.Marker.Color)

	assert.Equal(t, Height, fig.Layout.Height)
	assert.Equal(t, Title, fig.Layout.Title)
}

func TestComposeWithForecast(t *testing.T) {
	forecast := &models.MForecastSeries{Symbol: "TEST", Points: []models.MForecastPoint{
		{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), PredictedClose: 105},
		{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), PredictedClose: 106},
	}}

	fig := NewComposer().Compose(sampleHistory(), forecast)

	require.Len(t, fig.Data, 3)
	line := fig.Data[1]
	assert.Equal(t, "scatter", line.Type)
	assert.Equal(t, "lines", line.Mode)
	assert.Equal(t, "y", line.YAxis)
	assert.Equal(t, ForecastColor, line.Line.Color)
	assert.Equal(t, "dash", line.Line.Dash)
	assert.Equal(t, []string{"2024-03-09", "2024-03-10"}, line.X)
	assert.Equal(t, []float64{105, 106}, line.Y)
}

func TestComposePanelSplit(t *testing.T) {
	l := NewComposer().Compose(sampleHistory(), nil).Layout

	// 70/30 split of the height left after the gap between panels.
	assert.InDelta(t, 0.291, l.YAxis2.Domain[1], 1e-9)
	assert.InDelta(t, 0.321, l.YAxis.Domain[0], 1e-9)
	assert.Equal(t, 1.0, l.YAxis.Domain[1])
	assert.Equal(t, "x2", l.XAxis.Matches)
	assert.False(t, l.XAxis.RangeSlider.Visible)
}

func TestComposeSkipsIncompleteBarsAndEncodes(t *testing.T) {
	h := sampleHistory()
	h.Bars[1].Open = math.NaN()
	h.Bars[2].Volume = math.NaN()

	fig := NewComposer().Compose(h, nil)
	assert.Len(t, fig.Data[0].X, 4)
	assert.Len(t, fig.Data[1].X, 4)

	raw, err := json.Marshal(fig)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "data")
	assert.Contains(t, doc, "layout")
}
