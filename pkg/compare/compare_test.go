// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package compare

import (
	"math/rand"
	"testing"

	"github.com/grand-mother/hotspot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normal(r *rand.Rand, n int, mu float64) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = mu + r.NormFloat64()
	}
	return res
}

func TestCompare(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	a := normal(r, 500, 0)
	shifted := normal(r, 500, 1)
	res, err := Compare(a, shifted)
	require.NoError(t, err)
	assert.Equal(t, 500, res.N1)
	assert.Less(t, res.UTest, 1e-6)
	assert.Less(t, res.KS, 1e-6)

	same := normal(r, 500, 0)
	res, err = Compare(a, same)
	require.NoError(t, err)
	assert.Greater(t, res.UTest, 1e-4)
	assert.Greater(t, res.KS, 1e-4)
}

func TestCompareKeepsInput(t *testing.T) {
	a := []float64{3, 1, 2, 5, 4}
	b := []float64{9, 7, 8, 6, 10}
	_, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 5, 4}, a)
	assert.Equal(t, []float64{9, 7, 8, 6, 10}, b)
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare(nil, []float64{1})
	assert.Error(t, err)
	_, err = Compare([]float64{1, 1, 1}, []float64{1, 1, 1})
	assert.Error(t, err)
}
