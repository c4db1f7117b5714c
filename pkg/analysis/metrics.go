// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"time"

	"github.com/grand-mother/hotspot/pkg/fit"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics live in a per-run registry, so that concurrent runs (e.g. in tests) don't collide.
type metrics struct {
	registry   *prometheus.Registry
	samples    prometheus.Counter
	skipped    prometheus.Counter
	histograms prometheus.Counter
	fits       *prometheus.CounterVec
	fitLatency *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotspot_samples_total",
			Help: "Rows loaded from the sample store.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotspot_skipped_samples_total",
			Help: "Rows skipped by histograms because of non-finite values.",
		}),
		histograms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotspot_histograms_total",
			Help: "Rate histograms estimated.",
		}),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotspot_fits_total",
			Help: "Model fits by model and outcome.",
		}, []string{"model", "outcome"}),
		fitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotspot_fit_seconds",
			Help:    "Model fit latency.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"model"}),
	}
	m.registry.MustRegister(m.samples, m.skipped, m.histograms, m.fits, m.fitLatency)
	return m
}

const (
	outcomeOK           = "ok"
	outcomeInsufficient = "insufficient"
	outcomeFailed       = "failed"
)

func (m *metrics) observeFit(model fit.Model, err error, latency time.Duration) {
	outcome := outcomeOK
	switch {
	case errors.Is(err, fit.ErrInsufficientStatistics):
		outcome = outcomeInsufficient
	case err != nil:
		outcome = outcomeFailed
	}
	m.fits.WithLabelValues(string(model), outcome).Inc()
	m.fitLatency.WithLabelValues(string(model)).Observe(latency.Seconds())
}

// Gatherer exposes metrics of the run.
func (r *Result) Gatherer() prometheus.Gatherer {
	return r.metrics.registry
}

// WriteMetrics writes metrics of the run in the node exporter textfile format.
func (r *Result) WriteMetrics(filename string) error {
	return prometheus.WriteToTextfile(filename, r.metrics.registry)
}
