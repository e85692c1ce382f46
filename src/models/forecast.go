package models

import "time"

// MFeatureRow is the per-bar working record of the forecast engine.
type MFeatureRow struct {
	Date        time.Time
	Close       float64
	Volume      float64
	SMA5        float64
	SMA20       float64
	RSI14       float64
	Volatility5 float64
	Target      float64
}

// Vector returns the regression inputs in their fixed column order:
// close, volume, sma5, sma20, rsi14, volatility5.
func (r MFeatureRow) Vector() []float64 {
	return []float64{r.Close, r.Volume, r.SMA5, r.SMA20, r.RSI14, r.Volatility5}
}

// Feature column indices inside MFeatureRow.Vector().
const (
	FeatClose = iota
	FeatVolume
	FeatSMA5
	FeatSMA20
	FeatRSI14
	FeatVolatility5
	NumFeatures
)

// MForecastPoint is one projected close.
type MForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
}

// MForecastSeries is the ordered projection for one symbol.
type MForecastSeries struct {
	Symbol string           `json:"symbol"`
	Points []MForecastPoint `json:"points"`
}

// Len returns the number of projected points.
func (s *MForecastSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}
