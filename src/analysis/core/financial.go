package core

import "math"

// -----------------------------------------------------------------------------

// PctChange returns day-over-day fractional returns. The first element has no
// predecessor and is NaN, as is any return whose previous value is zero.
func PctChange(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 || closes[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (closes[i] - closes[i-1]) / closes[i-1]
	}
	return out
}

// -----------------------------------------------------------------------------

// GainsLosses splits day-over-day close deltas into non-negative gains and
// losses. The first bar has no delta and counts as zero for both.
func GainsLosses(closes []float64) (gains, losses []float64) {
	gains = make([]float64, len(closes))
	losses = make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}
	return gains, losses
}

// -----------------------------------------------------------------------------

// RollingRSI computes RSI = 100 - 100/(1 + avgGain/avgLoss) where both averages
// are simple rolling means over period bars. Rows whose window is incomplete,
// or whose average loss is zero, are NaN.
func RollingRSI(closes []float64, period int) []float64 {
	gains, losses := GainsLosses(closes)
	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	out := make([]float64, len(closes))
	for i := range closes {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) || avgLoss[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
