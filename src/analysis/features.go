package analysis

import (
	"market-analyzer/src/analysis/core"
	"market-analyzer/src/models"
)

// Rolling window lengths of the technical features.
const (
	ShortSMAWindow   = 5
	LongSMAWindow    = 20
	RSIWindow        = 14
	VolatilityWindow = 5
)

// -----------------------------------------------------------------------------

// CleanBars drops every bar with a missing OHLCV field.
func CleanBars(bars []models.MPriceBar) []models.MPriceBar {
	clean := make([]models.MPriceBar, 0, len(bars))
	for _, b := range bars {
		if b.IsComplete() {
			clean = append(clean, b)
		}
	}
	return clean
}

// -----------------------------------------------------------------------------

// BuildFeatureRows turns a cleaned bar sequence into labelled feature rows.
// The label of row i is the close of bar i+1, so the final bar never becomes
// a row. Rows whose features are still warming up, or whose RSI is undefined,
// are dropped. Order is preserved.
func BuildFeatureRows(bars []models.MPriceBar) []models.MFeatureRow {
	if len(bars) < 2 {
		return nil
	}

	// 1. Shift the target and drop the final bar
	n := len(bars) - 1
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		closes[i] = bars[i].Close
	}

	// 2. Rolling features over the remaining rows
	sma5 := core.RollingMean(closes, ShortSMAWindow)
	sma20 := core.RollingMean(closes, LongSMAWindow)
	rsi := core.RollingRSI(closes, RSIWindow)
	volatility := core.RollingSampleStd(core.PctChange(closes), VolatilityWindow)

	// 3. Keep only fully defined rows
	rows := make([]models.MFeatureRow, 0, n)
	for i := 0; i < n; i++ {
		row := models.MFeatureRow{
			Date:        bars[i].Date,
			Close:       closes[i],
			Volume:      bars[i].Volume,
			SMA5:        sma5[i],
			SMA20:       sma20[i],
			RSI14:       rsi[i],
			Volatility5: volatility[i],
			Target:      bars[i+1].Close,
		}
		if !rowDefined(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func rowDefined(r models.MFeatureRow) bool {
	for _, v := range r.Vector() {
		if !core.IsFinite(v) {
			return false
		}
	}
	return core.IsFinite(r.Target)
}
