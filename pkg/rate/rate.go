// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package rate turns weighted Monte-Carlo samples into rate densities with statistical uncertainty.
//
// For every bin the estimator accumulates S1 = Σw and S2 = Σw² and computes
//
//	p  = S1/N * norm
//	dp = sqrt((S2/N - (S1/N)²) / N) * norm
//
// where N is the number of generated events and norm is 1/Width for linear bins
// and 1/Width/X for logarithmic bins (log-space normalization followed by the Jacobian).
// dp is the second moment of the weight treated as N independent trials, not a Poisson error.
package rate

import (
	"fmt"
	"math"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/sample"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Point is the density estimate of a single bin.
type Point struct {
	X  float64
	P  float64
	DP float64
}

// Distribution is the per-bin density in bin order.
type Distribution struct {
	Scale       binning.Scale
	PowerFactor float64
	Generated   float64
	// Entries and SumW count the samples that fell into the domain.
	Entries   int
	SumW      float64
	Estimates []Point
}

// Estimate computes the density of set over bins.
// If powerFactor is not 0, both P and DP are multiplied by X^powerFactor after the uncertainty
// is computed (e.g. 1 shows E×rate for an energy spectrum).
// Bins without samples get zero P and DP. Samples outside of the domain are ignored.
func Estimate(set *sample.Set, bins *binning.Set, powerFactor float64) (*Distribution, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if bins == nil || bins.Len() == 0 {
		return nil, fmt.Errorf("%w: empty bin set", binning.ErrInvalidDomain)
	}
	hist := hbook.NewH1DFromEdges(bins.Edges())
	dist := &Distribution{
		Scale:       bins.Scale,
		PowerFactor: powerFactor,
		Generated:   set.Generated,
		Estimates:   make([]Point, bins.Len()),
	}
	for _, smp := range set.Samples {
		idx := bins.Index(smp.Observable)
		if idx < 0 {
			continue
		}
		// Fill at the bin center, hbook edge conventions differ from ours.
		hist.Fill(bins.Bins[idx].X, smp.Weight)
		dist.Entries++
		dist.SumW += smp.Weight
	}
	n := set.Generated
	for i, b := range bins.Bins {
		acc := &hist.Binning.Bins[i]
		dist.Estimates[i] = density(b, bins.Scale, acc.SumW(), acc.SumW2(), n, powerFactor)
	}
	return dist, nil
}

func density(b binning.Bin, scale binning.Scale, sumW, sumW2, n, powerFactor float64) Point {
	norm := 1 / b.Width
	if scale == binning.Log {
		norm /= b.X
	}
	mean := sumW / n
	variance := (sumW2/n - mean*mean) / n
	if variance < 0 {
		// Only possible with fewer generated events than accumulated weight.
		variance = 0
	}
	est := Point{
		X:  b.X,
		P:  mean * norm,
		DP: math.Sqrt(variance) * norm,
	}
	if powerFactor != 0 {
		factor := math.Pow(b.X, powerFactor)
		est.P *= factor
		est.DP *= factor
	}
	return est
}

func (d *Distribution) Len() int {
	return len(d.Estimates)
}

func (d *Distribution) X() []float64 {
	return d.column(func(e Point) float64 { return e.X })
}

func (d *Distribution) P() []float64 {
	return d.column(func(e Point) float64 { return e.P })
}

func (d *Distribution) DP() []float64 {
	return d.column(func(e Point) float64 { return e.DP })
}

func (d *Distribution) column(get func(Point) float64) []float64 {
	res := make([]float64, len(d.Estimates))
	for i, e := range d.Estimates {
		res[i] = get(e)
	}
	return res
}

// Moments are the global moments of a distribution, integrated with the trapezoidal rule over bin centers.
type Moments struct {
	TotalRate float64
	// Mean and Sigma are NaN if TotalRate is 0.
	Mean  float64
	Sigma float64
}

func (m Moments) Defined() bool {
	return m.TotalRate != 0 && !math.IsNaN(m.Mean)
}

func ComputeMoments(d *Distribution) Moments {
	res := Moments{Mean: math.NaN(), Sigma: math.NaN()}
	if d.Len() < 2 {
		return res
	}
	x, p := d.X(), d.P()
	res.TotalRate = integrate.Trapezoidal(x, p)
	if res.TotalRate == 0 {
		return res
	}
	f := make([]float64, len(x))
	floats.MulTo(f, x, p)
	res.Mean = integrate.Trapezoidal(x, f) / res.TotalRate
	for i := range f {
		dx := x[i] - res.Mean
		f[i] = dx * dx * p[i]
	}
	res.Sigma = math.Sqrt(integrate.Trapezoidal(x, f) / res.TotalRate)
	return res
}

// Total is the integrated rate of a whole sample set.
type Total struct {
	Rate        float64
	Uncertainty float64
}

func (t Total) String() string {
	return fmt.Sprintf("%.3g +- %.3g", t.Rate, t.Uncertainty)
}

// Integrated returns the total rate Σw/N of a sample set and its uncertainty
// sqrt((Σw²/N - (Σw/N)²) / N), without any binning.
func Integrated(set *sample.Set) (Total, error) {
	if err := set.Validate(); err != nil {
		return Total{}, err
	}
	w := set.Weights()
	n := set.Generated
	mean := floats.Sum(w) / n
	variance := (floats.Dot(w, w)/n - mean*mean) / n
	return Total{
		Rate:        mean,
		Uncertainty: math.Sqrt(math.Max(variance, 0)),
	}, nil
}
