// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package analysis runs a configured set of rate histograms, rate maps and summaries over a sample store.
//
// Histograms and maps are independent jobs and run in parallel. A fit failure is recorded
// in the histogram report and does not affect other jobs, any other error aborts the run.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/fit"
	"github.com/grand-mother/hotspot/pkg/log"
	"github.com/grand-mother/hotspot/pkg/rate"
	"github.com/grand-mother/hotspot/pkg/report"
	"github.com/grand-mother/hotspot/pkg/sample"
	"github.com/grand-mother/hotspot/pkg/summary"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Generated  float64
	Total      rate.Total
	Histograms []*Histogram
	Maps       []*Map
	Summaries  []summary.Summary

	metrics *metrics
}

type Histogram struct {
	Report  *report.Report
	Moments rate.Moments
	// Skipped is the number of rows with non-finite observable or weight.
	Skipped int
	// Entries is the number of samples within the binned domain.
	Entries int
	// FitErr is the fit failure also recorded in the report, if any.
	FitErr error
}

type Map struct {
	Name string
	*rate.Map
}

// Run runs the analysis with at most parallel concurrent jobs (all CPUs if parallel <= 0).
// cfg must be validated.
func Run(ctx context.Context, table *sample.Table, cfg *Config, parallel int) (*Result, error) {
	if cfg.Generated != 0 {
		override := *table
		override.Generated = cfg.Generated
		table = &override
	}
	for _, f := range cfg.fields() {
		if err := table.Check(f); err != nil {
			return nil, err
		}
	}
	res := &Result{
		Generated:  table.Generated,
		Histograms: make([]*Histogram, len(cfg.Histograms)),
		Maps:       make([]*Map, len(cfg.Maps)),
		metrics:    newMetrics(),
	}
	// The observable is irrelevant for the integrated rate, only the weights matter.
	all, _, err := table.Samples(sample.Selector{Observable: cfg.Weight, Weight: cfg.Weight})
	if err != nil {
		return nil, err
	}
	if res.Total, err = rate.Integrated(all); err != nil {
		return nil, err
	}
	res.metrics.samples.Add(float64(len(table.Rows)))
	log.Logf(1, "integrated rate %v over %v rows, %v generated", res.Total, len(table.Rows), table.Generated)

	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range cfg.Histograms {
		i := i
		h := &cfg.Histograms[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hist, err := histogram(res.metrics, table, h, cfg.Weight)
			if err != nil {
				return fmt.Errorf("histogram %v: %w", h.Name, err)
			}
			res.Histograms[i] = hist
			return nil
		})
	}
	for i := range cfg.Maps {
		i := i
		m := &cfg.Maps[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rmap, err := rateMap(table, m, cfg.Weight)
			if err != nil {
				return fmt.Errorf("map %v: %w", m.Name, err)
			}
			res.Maps[i] = rmap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Summaries are cheap, they don't deserve separate jobs.
	for _, s := range cfg.Summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, err := describe(table, s)
		if err != nil {
			return nil, fmt.Errorf("summary %v: %w", s.Name, err)
		}
		res.Summaries = append(res.Summaries, sum)
	}
	return res, nil
}

func histogram(m *metrics, table *sample.Table, cfg *HistogramConfig, weight sample.Field) (*Histogram, error) {
	if cfg.Weight != nil {
		weight = *cfg.Weight
	}
	set, skipped, err := table.Samples(sample.Selector{Observable: cfg.Observable, Weight: weight})
	if err != nil {
		return nil, err
	}
	m.skipped.Add(float64(skipped))
	bins, err := cfg.Axis.bins(set.Observables())
	if err != nil {
		return nil, err
	}
	dist, err := rate.Estimate(set, bins, cfg.Power)
	if err != nil {
		return nil, err
	}
	m.histograms.Inc()
	var res *fit.Result
	var fitErr error
	if model := fit.Model(cfg.Model); model != fit.None {
		start := time.Now()
		res, fitErr = fit.Fit(dist, model)
		m.observeFit(model, fitErr, time.Since(start))
	}
	rep := report.New(dist, res)
	rep.Name = cfg.Name
	rep.Observable = cfg.Observable.String()
	if fitErr != nil {
		rep.FitError = fitErr.Error()
		log.Logf(0, "%v: %v", cfg.Name, fitErr)
	}
	log.Logf(1, "%v: %v entries in %v %v bins, %v rows skipped",
		cfg.Name, dist.Entries, bins.Len(), bins.Scale, skipped)
	return &Histogram{
		Report:  rep,
		Moments: rate.ComputeMoments(dist),
		Skipped: skipped,
		Entries: dist.Entries,
		FitErr:  fitErr,
	}, nil
}

func rateMap(table *sample.Table, cfg *MapConfig, weight sample.Field) (*Map, error) {
	if cfg.Weight != nil {
		weight = *cfg.Weight
	}
	points, err := table.Points(cfg.X.Observable, cfg.Y.Observable, weight)
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	xbins, err := cfg.X.bins(xs)
	if err != nil {
		return nil, fmt.Errorf("x: %w", err)
	}
	ybins, err := cfg.Y.bins(ys)
	if err != nil {
		return nil, fmt.Errorf("y: %w", err)
	}
	rmap, err := rate.EstimateMap(points, table.Generated, xbins, ybins)
	if err != nil {
		return nil, err
	}
	return &Map{cfg.Name, rmap}, nil
}

// bins builds the bin set of the axis, unset domain ends are taken from values.
func (a *Axis) bins(values []float64) (*binning.Set, error) {
	if a.Min != nil && a.Max != nil {
		return binning.Build(*a.Min, *a.Max, a.Bins, a.Scale)
	}
	min, max, err := binning.Range(values, a.Scale)
	if err != nil {
		return nil, err
	}
	if a.Min != nil {
		min = *a.Min
	}
	if a.Max != nil {
		max = *a.Max
	}
	return binning.Build(min, max, a.Bins, a.Scale)
}

func describe(table *sample.Table, cfg SummaryConfig) (summary.Summary, error) {
	if cfg.Above != nil {
		filtered, err := table.Filter(cfg.Field.Column, *cfg.Above)
		if err != nil {
			return summary.Summary{}, err
		}
		table = filtered
	}
	values, err := table.Values(cfg.Field)
	if err != nil {
		return summary.Summary{}, err
	}
	return summary.Describe(cfg.Name, values), nil
}
