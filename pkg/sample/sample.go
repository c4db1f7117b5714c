// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package sample holds weighted Monte-Carlo samples and the named-column tables they are derived from.
package sample

import (
	"fmt"
	"math"
)

// Sample is a single weighted event projected on one observable.
type Sample struct {
	Observable float64
	Weight     float64
}

// Set is a set of samples sharing the number of generated events.
// Generated counts all thrown events, including the ones that did not make it into Samples.
type Set struct {
	Samples   []Sample
	Generated float64
}

// Validate checks the invariants every estimator relies on.
func (s *Set) Validate() error {
	if !(s.Generated > 0) || math.IsInf(s.Generated, 0) {
		return fmt.Errorf("generated event count must be positive, got %v", s.Generated)
	}
	for i, smp := range s.Samples {
		if math.IsNaN(smp.Weight) || math.IsInf(smp.Weight, 0) || smp.Weight < 0 {
			return fmt.Errorf("sample %v: bad weight %v", i, smp.Weight)
		}
		if math.IsNaN(smp.Observable) {
			return fmt.Errorf("sample %v: observable is NaN", i)
		}
	}
	return nil
}

func (s *Set) Observables() []float64 {
	res := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		res[i] = smp.Observable
	}
	return res
}

func (s *Set) Weights() []float64 {
	res := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		res[i] = smp.Weight
	}
	return res
}

// Point is a weighted event projected on two observables.
type Point struct {
	X      float64
	Y      float64
	Weight float64
}
