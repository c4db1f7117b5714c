// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fit

import (
	"fmt"
	"math"

	"github.com/grand-mother/hotspot/pkg/rate"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

const gaussianParams = 2

func fitGaussian(m rate.Moments, xs, ps, dps []float64) (*Result, error) {
	if len(xs) < gaussianParams {
		return nil, fmt.Errorf("%w: %v bins for a gaussian", ErrInsufficientStatistics, len(xs))
	}
	if !m.Defined() || !(m.Sigma > 0) {
		return nil, fmt.Errorf("%w: no spread to start the gaussian fit from", ErrInsufficientStatistics)
	}
	ys := make([]float64, len(xs))
	sigmas := make([]float64, len(xs))
	for i := range xs {
		ys[i] = ps[i] / m.TotalRate
		sigmas[i] = dps[i] / m.TotalRate
	}
	// The solver works on (mean, sigma) in units of the initial sigma around the initial mean,
	// so that the initial simplex has a sensible size whatever the observable is.
	params := func(u []float64) (mean, sigma float64) {
		return m.Mean + u[0]*m.Sigma, math.Abs(u[1]) * m.Sigma
	}
	chi2 := func(u []float64) float64 {
		mean, sigma := params(u)
		if sigma == 0 {
			return math.MaxFloat64
		}
		sum := 0.0
		for i, x := range xs {
			r := (ys[i] - normal(x, mean, sigma)) / sigmas[i]
			sum += r * r
		}
		return sum
	}
	init := []float64{0, 1}
	problem := optimize.Problem{Func: chi2}
	settings := &optimize.Settings{
		MajorIterations: 10000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 100,
		},
	}
	res, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err == nil && !converged(res.Status) {
		err = fmt.Errorf("solver stopped with status %v", res.Status)
	}
	if err != nil {
		return nil, &FittingError{
			Model:    Gaussian,
			Residual: chi2(init),
			Err:      err,
		}
	}
	mean, sigma := params(res.X)
	return &Result{
		Model:    Gaussian,
		Params:   []float64{mean, sigma},
		Residual: res.F,
		Rate:     m.TotalRate,
	}, nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return true
	}
	return false
}

func normal(x, mean, sigma float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: sigma}.Prob(x)
}
