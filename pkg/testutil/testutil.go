// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package testutil

import (
	"math"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/grand-mother/hotspot/pkg/sample"
)

// RandSource returns a seeded source and logs the seed.
// The seed can be fixed with HOTSPOT_SEED, CI runs always use 0.
func RandSource(t testing.TB) rand.Source {
	seed := time.Now().UnixNano()
	if fixed := os.Getenv("HOTSPOT_SEED"); fixed != "" {
		seed, _ = strconv.ParseInt(fixed, 0, 64)
	}
	if os.Getenv("CI") != "" {
		seed = 0
	}
	t.Logf("seed=%v", seed)
	return rand.NewSource(seed)
}

// NormalSet draws n unit-weight samples from N(mu, sigma).
func NormalSet(r *rand.Rand, n int, mu, sigma, generated float64) *sample.Set {
	return drawSet(n, generated, func() float64 {
		return mu + sigma*r.NormFloat64()
	})
}

// LogUniformSet draws n unit-weight samples uniformly in log(x) over [lo, hi).
func LogUniformSet(r *rand.Rand, n int, lo, hi, generated float64) *sample.Set {
	llo, lhi := math.Log(lo), math.Log(hi)
	return drawSet(n, generated, func() float64 {
		return math.Exp(llo + (lhi-llo)*r.Float64())
	})
}

func drawSet(n int, generated float64, draw func() float64) *sample.Set {
	set := &sample.Set{
		Samples:   make([]sample.Sample, n),
		Generated: generated,
	}
	for i := range set.Samples {
		set.Samples[i] = sample.Sample{Observable: draw(), Weight: 1}
	}
	return set
}
