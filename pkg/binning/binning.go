// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package binning partitions the domain of an observable into linear or logarithmic bins.
//
// Bins are half-open [Lo, Hi) intervals except for the last one, which also includes its upper edge.
// Every bin carries a representative coordinate X and a Width term that the rate estimator
// divides by to turn accumulated weight into a density:
//
//	linear: X = (Lo+Hi)/2,              Width = Hi-Lo
//	log:    X = exp((log Lo+log Hi)/2), Width = log Hi-log Lo
//
// For log bins the density is additionally divided by X (the Jacobian of the log transform),
// that is why X must be the geometric and not the arithmetic mean of the edges.
package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/vec"
)

type Scale string

const (
	Linear Scale = "linear"
	Log    Scale = "log"
)

// ErrInvalidDomain is returned (wrapped) for malformed bin configurations.
var ErrInvalidDomain = errors.New("invalid domain")

type Bin struct {
	Lo    float64
	Hi    float64
	X     float64
	Width float64
}

// Set is an ordered partition of [Lo of the first bin, Hi of the last bin].
type Set struct {
	Scale Scale
	Bins  []Bin
}

// Build partitions [min, max] into n bins of the given scale.
func Build(min, max float64, n int, scale Scale) (*Set, error) {
	if err := validate(min, max, n, scale); err != nil {
		return nil, err
	}
	var lo, hi float64
	switch scale {
	case Linear:
		lo, hi = min, max
	case Log:
		lo, hi = math.Log(min), math.Log(max)
	}
	// Edges in the space where they are evenly spaced.
	ticks := vec.Linspace(lo, hi, n+1)
	ticks[0], ticks[n] = lo, hi
	set := &Set{
		Scale: scale,
		Bins:  make([]Bin, n),
	}
	for i := range set.Bins {
		b := &set.Bins[i]
		switch scale {
		case Linear:
			b.Lo, b.Hi = ticks[i], ticks[i+1]
			b.X = 0.5 * (b.Lo + b.Hi)
			b.Width = b.Hi - b.Lo
		case Log:
			b.Lo, b.Hi = math.Exp(ticks[i]), math.Exp(ticks[i+1])
			b.X = math.Exp(0.5 * (ticks[i] + ticks[i+1]))
			b.Width = ticks[i+1] - ticks[i]
		}
	}
	// Pin the outer edges to the requested domain, exp(log(x)) is not always x.
	set.Bins[0].Lo = min
	set.Bins[n-1].Hi = max
	for i, b := range set.Bins {
		if !(b.Lo < b.Hi) || b.Width <= 0 {
			return nil, fmt.Errorf("%w: bin %v [%v, %v) is empty, too many bins for [%v, %v]",
				ErrInvalidDomain, i, b.Lo, b.Hi, min, max)
		}
	}
	return set, nil
}

func validate(min, max float64, n int, scale Scale) error {
	switch {
	case scale != Linear && scale != Log:
		return fmt.Errorf("%w: unknown scale %q", ErrInvalidDomain, scale)
	case n < 1:
		return fmt.Errorf("%w: need at least one bin, got %v", ErrInvalidDomain, n)
	case math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0):
		return fmt.Errorf("%w: non-finite bounds [%v, %v]", ErrInvalidDomain, min, max)
	case min >= max:
		return fmt.Errorf("%w: min %v is not below max %v", ErrInvalidDomain, min, max)
	case scale == Log && min <= 0:
		return fmt.Errorf("%w: log scale needs a positive min, got %v", ErrInvalidDomain, min)
	}
	return nil
}

func (s *Set) Len() int {
	return len(s.Bins)
}

func (s *Set) Min() float64 {
	return s.Bins[0].Lo
}

func (s *Set) Max() float64 {
	return s.Bins[len(s.Bins)-1].Hi
}

// Edges returns the Len()+1 bin edges in increasing order.
func (s *Set) Edges() []float64 {
	edges := make([]float64, 0, len(s.Bins)+1)
	for _, b := range s.Bins {
		edges = append(edges, b.Lo)
	}
	return append(edges, s.Max())
}

// Centers returns the representative coordinates of all bins.
func (s *Set) Centers() []float64 {
	xs := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		xs[i] = b.X
	}
	return xs
}

// Index returns the bin that contains v, or -1 if v is outside of the domain.
// A value exactly on an inner edge belongs to the upper bin, the domain max belongs to the last bin.
func (s *Set) Index(v float64) int {
	n := len(s.Bins)
	if math.IsNaN(v) || v < s.Min() || v > s.Max() {
		return -1
	}
	if v == s.Max() {
		return n - 1
	}
	// First bin whose upper edge is above v.
	return sort.Search(n, func(i int) bool {
		return s.Bins[i].Hi > v
	})
}

// Range returns the domain spanned by the finite values (positive ones for the log scale).
// A degenerate range is widened by 0.5 on each side (in log space for the log scale).
func Range(values []float64, scale Scale) (min, max float64, err error) {
	found := false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || scale == Log && v <= 0 {
			continue
		}
		if !found {
			min, max, found = v, v, true
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if !found {
		return 0, 0, fmt.Errorf("%w: no usable values to derive a %v range from", ErrInvalidDomain, scale)
	}
	if min == max {
		if scale == Log {
			return min * math.Exp(-0.5), max * math.Exp(0.5), nil
		}
		return min - 0.5, max + 0.5, nil
	}
	return min, max, nil
}
