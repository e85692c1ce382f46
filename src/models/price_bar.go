package models

import (
	"math"
	"time"
)

// MPriceBar is one trading session of OHLCV data.
// A value the provider did not report is stored as NaN.
type MPriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IsComplete reports whether every OHLCV field holds a finite value.
func (b MPriceBar) IsComplete() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MPriceHistory is the ordered bar sequence for one symbol and period.
type MPriceHistory struct {
	Symbol string      `json:"symbol"`
	Period string      `json:"period"`
	Bars   []MPriceBar `json:"bars"`
}

// Len returns the number of bars.
func (h MPriceHistory) Len() int {
	return len(h.Bars)
}

// Last returns the most recent bar. ok is false for an empty history.
func (h MPriceHistory) Last() (bar MPriceBar, ok bool) {
	if len(h.Bars) == 0 {
		return MPriceBar{}, false
	}
	return h.Bars[len(h.Bars)-1], true
}
