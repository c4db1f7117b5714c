// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package report exposes rate distributions and fits as plain data for external renderers.
// It never touches the filesystem, Marshal returns bytes that the caller stores wherever it wants.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/fit"
	"github.com/grand-mother/hotspot/pkg/rate"
	"gopkg.in/yaml.v3"
)

type Report struct {
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Observable  string        `json:"observable,omitempty" yaml:"observable,omitempty"`
	Scale       binning.Scale `json:"scale" yaml:"scale"`
	PowerFactor float64       `json:"power_factor" yaml:"power_factor"`
	X           []float64     `json:"x" yaml:"x"`
	P           []float64     `json:"p" yaml:"p"`
	DP          []float64     `json:"dp" yaml:"dp"`
	Moments     Moments       `json:"moments" yaml:"moments"`
	Fit         *Fit          `json:"fit,omitempty" yaml:"fit,omitempty"`
	FitError    string        `json:"fit_error,omitempty" yaml:"fit_error,omitempty"`
}

// Moments mirrors rate.Moments, undefined values are omitted.
type Moments struct {
	TotalRate float64  `json:"total_rate" yaml:"total_rate"`
	Mean      *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Sigma     *float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
}

type Fit struct {
	Model    fit.Model `json:"model" yaml:"model"`
	Params   []float64 `json:"params" yaml:"params"`
	Residual float64   `json:"residual" yaml:"residual"`
	Bins     int       `json:"bins" yaml:"bins"`
	Rate     float64   `json:"rate" yaml:"rate"`
	CurveX   []float64 `json:"curve_x" yaml:"curve_x"`
	CurveY   []float64 `json:"curve_y" yaml:"curve_y"`
}

// New builds a report for dist, res may be nil if no fit was done.
func New(dist *rate.Distribution, res *fit.Result) *Report {
	rep := &Report{
		Scale:       dist.Scale,
		PowerFactor: dist.PowerFactor,
		X:           dist.X(),
		P:           dist.P(),
		DP:          dist.DP(),
	}
	m := rate.ComputeMoments(dist)
	rep.Moments.TotalRate = m.TotalRate
	if m.Defined() {
		rep.Moments.Mean = finite(m.Mean)
		rep.Moments.Sigma = finite(m.Sigma)
	}
	if res != nil {
		rep.Fit = &Fit{
			Model:    res.Model,
			Params:   append([]float64(nil), res.Params...),
			Residual: res.Residual,
			Bins:     res.Bins,
			Rate:     res.Rate,
		}
		for _, pt := range res.Curve {
			rep.Fit.CurveX = append(rep.Fit.CurveX, pt.X)
			rep.Fit.CurveY = append(rep.Fit.CurveY, pt.Y)
		}
	}
	return rep
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

var Formats = []Format{JSON, YAML, CSV}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q, want one of %v", s, Formats)
}

// Ext returns the file name extension for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// Marshal serializes the report.
// CSV contains only the per-bin table (x, p, dp and the fitted curve at x if there is a fit).
func (rep *Report) Marshal(format Format) ([]byte, error) {
	switch format {
	case JSON:
		return json.MarshalIndent(rep, "", "\t")
	case YAML:
		return yaml.Marshal(rep)
	case CSV:
		return rep.marshalCSV()
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

func (rep *Report) marshalCSV() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	header := []string{"x", "p", "dp"}
	var curve *fit.Result
	if rep.Fit != nil {
		header = append(header, "fit")
		curve = &fit.Result{Model: rep.Fit.Model, Params: rep.Fit.Params, Rate: rep.Fit.Rate}
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, x := range rep.X {
		row := []string{formatFloat(x), formatFloat(rep.P[i]), formatFloat(rep.DP[i])}
		if curve != nil {
			row = append(row, formatFloat(curve.Eval(x)))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
