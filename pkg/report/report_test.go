// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/fit"
	"github.com/grand-mother/hotspot/pkg/rate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testDistribution() *rate.Distribution {
	return &rate.Distribution{
		Scale: binning.Linear,
		Estimates: []rate.Point{
			{X: 0.5, P: 1, DP: 0.1},
			{X: 1.5, P: 3, DP: 0.2},
			{X: 2.5, P: 1, DP: 0.1},
		},
	}
}

func TestNew(t *testing.T) {
	dist := testDistribution()
	res := &fit.Result{
		Model:  fit.Gaussian,
		Params: []float64{1.5, 0.5},
		Bins:   3,
		Rate:   4,
		Curve:  []fit.Point{{X: 0.5, Y: 1}, {X: 2.5, Y: 2}},
	}
	rep := New(dist, res)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, rep.X)
	assert.Equal(t, []float64{1, 3, 1}, rep.P)
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, rep.DP)
	assert.InDelta(t, 4, rep.Moments.TotalRate, 1e-12)
	require.NotNil(t, rep.Moments.Mean)
	assert.InDelta(t, 1.5, *rep.Moments.Mean, 1e-12)
	require.NotNil(t, rep.Fit)
	assert.Equal(t, fit.Gaussian, rep.Fit.Model)
	assert.Equal(t, []float64{0.5, 2.5}, rep.Fit.CurveX)
	assert.Equal(t, []float64{1, 2}, rep.Fit.CurveY)
	// The report must not alias the fit result.
	res.Params[0] = 100
	assert.Equal(t, 1.5, rep.Fit.Params[0])
}

func TestUndefinedMoments(t *testing.T) {
	dist := &rate.Distribution{Estimates: make([]rate.Point, 3)}
	rep := New(dist, nil)
	assert.Nil(t, rep.Fit)
	assert.Equal(t, 0.0, rep.Moments.TotalRate)
	assert.Nil(t, rep.Moments.Mean)
	assert.Nil(t, rep.Moments.Sigma)
	// NaN moments must not break JSON.
	data, err := rep.Marshal(JSON)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "mean")
}

func TestMarshalJSON(t *testing.T) {
	rep := New(testDistribution(), nil)
	rep.Name = "energy"
	rep.FitError = "log-polynomial fit failed"
	data, err := rep.Marshal(JSON)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *rep, got)
}

func TestMarshalYAML(t *testing.T) {
	rep := New(testDistribution(), &fit.Result{Model: fit.LogPolynomial, Params: []float64{1, 0, 0, 0, 0}, Rate: 1})
	data, err := rep.Marshal(YAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "power_factor: 0\n")
	assert.Contains(t, string(data), "model: log-polynomial\n")
	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, rep.X, got.X)
	assert.Equal(t, rep.Fit.Params, got.Fit.Params)
}

func TestMarshalCSV(t *testing.T) {
	rep := New(testDistribution(), nil)
	data, err := rep.Marshal(CSV)
	require.NoError(t, err)
	assert.Equal(t, "x,p,dp\n0.5,1,0.1\n1.5,3,0.2\n2.5,1,0.1\n", string(data))

	// log(p) = x.
	rep.Fit = &Fit{Model: fit.LogPolynomial, Params: []float64{0, 1, 0, 0, 0}, Rate: 1}
	data, err = rep.Marshal(CSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "x,p,dp,fit", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.5,1,0.1,1.6487"), lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "2.5,1,0.1,12.18249"), lines[3])
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	_, err = New(testDistribution(), nil).Marshal("xml")
	assert.Error(t, err)
	assert.Equal(t, ".csv", CSV.Ext())
}
