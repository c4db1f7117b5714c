// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package summary

import (
	"math"
	"math/rand"
	"testing"

	"github.com/grand-mother/hotspot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s := Describe("ants", []float64{4, 1, math.NaN(), 3, math.Inf(1), 2})
	assert.Equal(t, "ants", s.Name)
	assert.Equal(t, 4, s.N)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), s.StdDev, 1e-12)
	assert.Equal(t, 2.5, s.Median)
	require.Len(t, s.Quantiles, len(QuantileLevels))
	for _, q := range s.Quantiles {
		assert.True(t, q.Value >= s.Min && q.Value <= s.Max, "%+v", q)
	}
	assert.Equal(t, "ants: N=4 min=1 max=4 mean=2.5 stddev=1.291 median=2.5", s.String())
}

func TestDescribeMedian(t *testing.T) {
	tests := []struct {
		input  []float64
		median float64
	}{
		{[]float64{1, 2, 3}, 2},
		{[]float64{3, 0, 2, 1}, 1.5},
		{[]float64{7}, 7},
	}
	for _, test := range tests {
		assert.Equal(t, test.median, Describe("", test.input).Median, "%v", test.input)
	}
}

func TestDescribeDegenerate(t *testing.T) {
	empty := Describe("empty", nil)
	assert.Equal(t, Summary{Name: "empty"}, empty)
	assert.Equal(t, "empty: no values", empty.String())
	one := Describe("one", []float64{3})
	assert.Equal(t, 1, one.N)
	assert.Equal(t, 0.0, one.StdDev)
	assert.Equal(t, 3.0, one.Mean)
}

func TestDescribeQuantiles(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	values := make([]float64, 20000)
	for i := range values {
		values[i] = r.NormFloat64()
	}
	s := Describe("normal", values)
	assert.InDelta(t, 0, s.Mean, 0.05)
	assert.InDelta(t, 1, s.StdDev, 0.05)
	assert.InDelta(t, 0, s.Median, 0.05)
	want := []float64{-1.645, -0.674, 0.674, 1.645}
	for i, q := range s.Quantiles {
		assert.Equal(t, QuantileLevels[i], q.Level)
		assert.InDelta(t, want[i], q.Value, 0.1, "quantile %v", q.Level)
	}
}
