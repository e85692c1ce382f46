package core

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// -----------------------------------------------------------------------------

// Mean returns the arithmetic mean, NaN for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// -----------------------------------------------------------------------------

// SampleStd returns the unbiased (n-1) standard deviation, NaN below two values.
func SampleStd(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	return stat.StdDev(data, nil)
}

// -----------------------------------------------------------------------------

// RollingReduce applies reduce to every trailing window of length window.
// out[i] is NaN while fewer than window values are available, or when any
// value inside the window is NaN.
func RollingReduce(data []float64, window int, reduce func([]float64) float64) []float64 {
	out := make([]float64, len(data))
	for i := range data {
		if window <= 0 || i+1 < window {
			out[i] = math.NaN()
			continue
		}
		w := data[i+1-window : i+1]
		if HasNaN(w) {
			out[i] = math.NaN()
			continue
		}
		out[i] = reduce(w)
	}
	return out
}

// -----------------------------------------------------------------------------

// RollingMean is the trailing simple moving average.
func RollingMean(data []float64, window int) []float64 {
	return RollingReduce(data, window, Mean)
}

// -----------------------------------------------------------------------------

// RollingSampleStd is the trailing sample standard deviation.
func RollingSampleStd(data []float64, window int) []float64 {
	return RollingReduce(data, window, SampleStd)
}

// -----------------------------------------------------------------------------

// HasNaN reports whether any element is NaN.
func HasNaN(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
