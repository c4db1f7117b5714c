// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package fit fits smooth parametric models to rate densities.
//
// Only bins with p > 0 and dp > 0 take part in a fit. Two models are supported:
//
//   - log-polynomial (default): a degree 4 polynomial fitted to log(p), each residual weighted
//     by log(p/dp) before squaring;
//   - gaussian: a normal density fitted to p/rate with inverse-variance weights, where rate is
//     the integral of the distribution and the initial guess comes from its moments.
//
// The fitted curve is evaluated on 101 points spanning the fitted bins.
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
	"github.com/grand-mother/hotspot/pkg/rate"
)

type Model string

const (
	None          Model = "none"
	Gaussian      Model = "gaussian"
	LogPolynomial Model = "log-polynomial"
)

const (
	PolynomialDegree = 4
	CurvePoints      = 101
)

// ErrInsufficientStatistics means that too few bins survived masking.
var ErrInsufficientStatistics = errors.New("insufficient statistics")

// FittingError is returned when a solver fails, Residual is the objective at the initial guess.
type FittingError struct {
	Model    Model
	Residual float64
	Err      error
}

func (e *FittingError) Error() string {
	return fmt.Sprintf("%v fit failed (residual at initial guess %g): %v", e.Model, e.Residual, e.Err)
}

func (e *FittingError) Unwrap() error {
	return e.Err
}

// ParseModel maps a configuration string to a model, the empty string selects the default model.
func ParseModel(s string) (Model, error) {
	switch m := Model(s); m {
	case "":
		return LogPolynomial, nil
	case None, Gaussian, LogPolynomial:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fit model %q", s)
	}
}

type Point struct {
	X float64
	Y float64
}

type Result struct {
	Model Model
	// Params are (mean, sigma) for the gaussian model and the polynomial
	// coefficients c0..c4 of log(p) = c0 + c1*x + ... + c4*x^4 for the log-polynomial model.
	Params []float64
	// Residual is the weighted sum of squared residuals at the solution.
	Residual float64
	// Bins is the number of bins that took part in the fit.
	Bins int
	// Rate scales the unit gaussian back to the distribution, it is 1 for the log-polynomial model.
	Rate  float64
	Curve []Point
}

// Eval evaluates the fitted curve at x.
func (r *Result) Eval(x float64) float64 {
	switch r.Model {
	case Gaussian:
		return r.Rate * normal(x, r.Params[0], r.Params[1])
	case LogPolynomial:
		return math.Exp(polyval(r.Params, x))
	}
	return math.NaN()
}

// Fit fits the model to the distribution.
func Fit(dist *rate.Distribution, model Model) (*Result, error) {
	xs, ps, dps := mask(dist)
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no bins with positive rate and uncertainty", ErrInsufficientStatistics)
	}
	var res *Result
	var err error
	switch model {
	case LogPolynomial:
		res, err = fitLogPolynomial(xs, ps, dps)
	case Gaussian:
		res, err = fitGaussian(rate.ComputeMoments(dist), xs, ps, dps)
	default:
		return nil, fmt.Errorf("can't fit model %q", model)
	}
	if err != nil {
		return nil, err
	}
	res.Bins = len(xs)
	grid := vec.Linspace(xs[0], xs[len(xs)-1], CurvePoints)
	res.Curve = make([]Point, len(grid))
	for i, x := range grid {
		res.Curve[i] = Point{x, res.Eval(x)}
	}
	return res, nil
}

func mask(dist *rate.Distribution) (xs, ps, dps []float64) {
	for _, est := range dist.Estimates {
		if est.P > 0 && est.DP > 0 {
			xs = append(xs, est.X)
			ps = append(ps, est.P)
			dps = append(dps, est.DP)
		}
	}
	return
}
