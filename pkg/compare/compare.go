// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package compare tests whether two observables come from the same distribution.
package compare

import (
	"fmt"

	"github.com/dgryski/go-onlinestats"
	"golang.org/x/perf/benchstat" // nolint:all
)

type Result struct {
	N1, N2 int
	// UTest is the Mann-Whitney U test p-value.
	UTest float64
	// KS is the two-sample Kolmogorov-Smirnov test p-value.
	KS float64
}

// Compare runs both tests, the inputs are not modified.
func Compare(a, b []float64) (*Result, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("can't compare empty samples (%v vs %v values)", len(a), len(b))
	}
	res := &Result{N1: len(a), N2: len(b)}
	var err error
	// benchstat wants Metrics, so wrap the data.
	res.UTest, err = benchstat.UTest(&benchstat.Metrics{RValues: a}, &benchstat.Metrics{RValues: b})
	if err != nil {
		return nil, fmt.Errorf("u-test failed: %w", err)
	}
	// KS sorts in place.
	res.KS = onlinestats.KS(append([]float64(nil), a...), append([]float64(nil), b...))
	return res, nil
}

func (r *Result) String() string {
	return fmt.Sprintf("N=%v vs N=%v: u-test p=%.3g, ks p=%.3g", r.N1, r.N2, r.UTest, r.KS)
}
