package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSRecoversExactPlane(t *testing.T) {
	// y = 3 + 2*x1 - 0.5*x2
	X := [][]float64{{1, 4}, {2, 1}, {3, 7}, {4, 2}, {5, 5}, {6, 9}}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 3 + 2*row[0] - 0.5*row[1]
	}

	m, err := FitOLS(X, y)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, m.Intercept, 1e-9)
	assert.InDelta(t, 2.0, m.Coef[0], 1e-9)
	assert.InDelta(t, -0.5, m.Coef[1], 1e-9)

	pred, err := m.Predict([]float64{10, 10})
	require.NoError(t, err)
	assert.InDelta(t, 18.0, pred, 1e-9)
}

func TestFitOLSMinimumNormOnDuplicateColumns(t *testing.T) {
	// Two identical columns share the weight equally.
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{2, 4, 6, 8}

	m, err := FitOLS(X, y)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Coef[0], 1e-9)
	assert.InDelta(t, 1.0, m.Coef[1], 1e-9)
	assert.InDelta(t, 0.0, m.Intercept, 1e-9)
}

func TestFitOLSConstantColumnGetsZeroWeight(t *testing.T) {
	X := [][]float64{{1, 7}, {2, 7}, {3, 7}, {4, 7}}
	y := []float64{1, 2, 3, 4}

	m, err := FitOLS(X, y)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Coef[0], 1e-9)
	assert.InDelta(t, 0.0, m.Coef[1], 1e-9)
}

func TestFitOLSRejectsBadShapes(t *testing.T) {
	_, err := FitOLS([][]float64{{1}}, []float64{1})
	assert.Error(t, err)

	_, err = FitOLS([][]float64{{1}, {2}}, []float64{1})
	assert.Error(t, err)

	_, err = FitOLS([][]float64{{1, 2}, {2}}, []float64{1, 2})
	assert.Error(t, err)
}

func TestPredictRejectsNonFinite(t *testing.T) {
	m := &LinearModel{Intercept: 0, Coef: []float64{math.MaxFloat64}}

	_, err := m.Predict([]float64{10})
	assert.Error(t, err)

	_, err = m.Predict([]float64{1, 2})
	assert.Error(t, err)
}
