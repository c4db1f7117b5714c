// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package summary provides descriptive statistics of sample columns.
package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/VividCortex/gohistogram"
	"github.com/aclements/go-moremath/stats"
)

// QuantileLevels are the levels reported in Summary.Quantiles.
var QuantileLevels = []float64{0.05, 0.25, 0.75, 0.95}

const histogramBuckets = 64

type Summary struct {
	Name   string  `json:"name" yaml:"name"`
	N      int     `json:"n" yaml:"n"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Median float64 `json:"median" yaml:"median"`
	// Quantiles are approximated with a streaming histogram, Median is exact.
	Quantiles []Quantile `json:"quantiles,omitempty" yaml:"quantiles,omitempty"`
}

type Quantile struct {
	Level float64 `json:"level" yaml:"level"`
	Value float64 `json:"value" yaml:"value"`
}

// Describe summarizes values, non-finite values are skipped.
// All statistics are 0 for an empty input, StdDev is 0 for a single value.
func Describe(name string, values []float64) Summary {
	res := Summary{Name: name}
	var st stats.StreamStats
	hist := gohistogram.NewHistogram(histogramBuckets)
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		st.Add(v)
		hist.Add(v)
		sorted = append(sorted, v)
	}
	if st.Count == 0 {
		return res
	}
	res.N = int(st.Count)
	res.Min, res.Max = st.Min, st.Max
	res.Mean = st.Mean()
	if st.Count > 1 {
		res.StdDev = st.StdDev()
	}
	sort.Float64s(sorted)
	res.Median = median(sorted)
	for _, level := range QuantileLevels {
		value := hist.Quantile(level)
		// The histogram interpolates between bucket centroids and may overshoot the data range.
		value = math.Max(res.Min, math.Min(res.Max, value))
		res.Quantiles = append(res.Quantiles, Quantile{level, value})
	}
	return res
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func (s Summary) String() string {
	if s.N == 0 {
		return fmt.Sprintf("%v: no values", s.Name)
	}
	return fmt.Sprintf("%v: N=%v min=%.4g max=%.4g mean=%.4g stddev=%.4g median=%.4g",
		s.Name, s.N, s.Min, s.Max, s.Mean, s.StdDev, s.Median)
}
