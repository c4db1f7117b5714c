// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/grand-mother/hotspot/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func fitLogPolynomial(xs, ps, dps []float64) (*Result, error) {
	if len(xs) < PolynomialDegree+1 {
		return nil, fmt.Errorf("%w: %v bins for a degree %v polynomial",
			ErrInsufficientStatistics, len(xs), PolynomialDegree)
	}
	ys := make([]float64, len(xs))
	ws := make([]float64, len(xs))
	for i := range xs {
		ys[i] = math.Log(ps[i])
		// Not an inverse-variance weight: log of the inverse relative error.
		ws[i] = math.Log(ps[i] / dps[i])
	}
	coeffs, err := polyfit(xs, ys, ws, PolynomialDegree)
	if err != nil {
		return nil, &FittingError{
			Model:    LogPolynomial,
			Residual: weightedResidual(xs, ys, ws, make([]float64, PolynomialDegree+1)),
			Err:      err,
		}
	}
	return &Result{
		Model:    LogPolynomial,
		Params:   coeffs,
		Residual: weightedResidual(xs, ys, ws, coeffs),
		Rate:     1,
	}, nil
}

// polyfit returns coefficients (lowest power first) minimizing Σ (w*(y - poly(x)))².
// Columns of the weighted Vandermonde matrix are scaled to unit norm before the QR solve.
func polyfit(xs, ys, ws []float64, degree int) ([]float64, error) {
	rows, cols := len(xs), degree+1
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for i, x := range xs {
		term := ws[i]
		for j := 0; j < cols; j++ {
			a.Set(i, j, term)
			term *= x
		}
		b.SetVec(i, ws[i]*ys[i])
	}
	scale := make([]float64, cols)
	col := make([]float64, rows)
	for j := range scale {
		mat.Col(col, j, a)
		scale[j] = floats.Norm(col, 2)
		if scale[j] == 0 {
			scale[j] = 1
		}
		floats.Scale(1/scale[j], col)
		a.SetCol(j, col)
	}
	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
		if c.Len() != cols || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("singular system: %w", err)
		}
		log.Logf(1, "polynomial fit is poorly conditioned: %v", err)
	}
	coeffs := make([]float64, cols)
	for j := range coeffs {
		coeffs[j] = c.AtVec(j) / scale[j]
		if math.IsNaN(coeffs[j]) || math.IsInf(coeffs[j], 0) {
			return nil, fmt.Errorf("coefficient %v is not finite", j)
		}
	}
	return coeffs, nil
}

func polyval(coeffs []float64, x float64) float64 {
	y := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}
	return y
}

func weightedResidual(xs, ys, ws, coeffs []float64) float64 {
	sum := 0.0
	for i, x := range xs {
		r := ws[i] * (ys[i] - polyval(coeffs, x))
		sum += r * r
	}
	return sum
}
