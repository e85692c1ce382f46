package analysis

import (
	"fmt"

	"market-analyzer/src/analysis/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// singularValueCutoff is the relative threshold below which singular values
// of the centred design matrix are treated as zero. It keeps exactly
// collinear columns (e.g. two moving averages of a linear trend) from picking
// up coefficients driven by floating point noise.
const singularValueCutoff = 1e-10

// LinearModel is a fitted ordinary least squares mapping y = b0 + x·coef.
type LinearModel struct {
	Intercept float64
	Coef      []float64
}

// -----------------------------------------------------------------------------

// FitOLS fits an intercept and one coefficient per column of X by ordinary
// least squares. Columns are centred, and the minimum-norm solution is taken
// when the design is rank deficient.
func FitOLS(X [][]float64, y []float64) (*LinearModel, error) {
	n := len(X)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 observations, got %d", n)
	}
	if len(y) != n {
		return nil, fmt.Errorf("got %d observations but %d targets", n, len(y))
	}
	p := len(X[0])
	if p == 0 {
		return nil, fmt.Errorf("observations have no features")
	}

	// 1. Column means
	xMean := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			if len(X[i]) != p {
				return nil, fmt.Errorf("observation %d has %d features, want %d", i, len(X[i]), p)
			}
			col[i] = X[i][j]
		}
		xMean[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	// 2. Centred design and response
	A := mat.NewDense(n, p, nil)
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			A.Set(i, j, X[i][j]-xMean[j])
		}
		b.Set(i, 0, y[i]-yMean)
	}

	// 3. Minimum-norm least squares through the SVD
	coef := make([]float64, p)
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}
	if rank := svd.Rank(singularValueCutoff); rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, b, rank)
		for j := 0; j < p; j++ {
			coef[j] = beta.At(j, 0)
		}
	}

	intercept := yMean
	for j := 0; j < p; j++ {
		intercept -= coef[j] * xMean[j]
	}

	model := &LinearModel{Intercept: intercept, Coef: coef}
	if !core.IsFinite(intercept) {
		return nil, fmt.Errorf("fit produced a non-finite intercept")
	}
	return model, nil
}

// -----------------------------------------------------------------------------

// Predict evaluates the model for one feature vector. A non-finite result is
// reported as an error.
func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("got %d features, model expects %d", len(x), len(m.Coef))
	}
	y := m.Intercept
	for j, v := range x {
		y += m.Coef[j] * v
	}
	if !core.IsFinite(y) {
		return 0, fmt.Errorf("prediction is not finite (%v)", y)
	}
	return y, nil
}
