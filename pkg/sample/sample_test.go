// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sample

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStore = `# produced by the reduction step
# generated: 200
weight, energy, zenith, ants
1,  1e9, 91, 4
0.5,2e9, 95, 8
0,  3e9, 80, 0
2,  4e9, 100, 0
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	assert.Equal(t, 200.0, table.Generated)
	assert.Equal(t, []string{"weight", "energy", "zenith", "ants"}, table.Columns)
	assert.Len(t, table.Rows, 4)
	zenith, err := table.Column("zenith")
	require.NoError(t, err)
	assert.Equal(t, []float64{91, 95, 80, 100}, zenith)
	_, err = table.Column("azimuth")
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"# generated: many\nweight\n1\n",
		"weight,weight\n1,2\n",
		"weight,energy\n1,abc\n",
		"weight,energy\n1\n",
	} {
		_, err := Parse(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "store.csv")
	require.NoError(t, os.WriteFile(file, table.Serialize(), 0644))
	loaded, err := Load(file)
	require.NoError(t, err)
	if diff := cmp.Diff(table, loaded); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestSamples(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	// Elevation angle from the zenith angle, as the hotspot analysis does.
	set, skipped, err := table.Samples(Selector{
		Observable: Field{Column: "zenith", Scale: -1, Offset: 90},
		Weight:     Field{Column: "weight"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 200.0, set.Generated)
	want := []Sample{{-1, 1}, {-5, 0.5}, {10, 0}, {-10, 2}}
	assert.Equal(t, want, set.Samples)
	assert.NoError(t, set.Validate())
	assert.Equal(t, []float64{-1, -5, 10, -10}, set.Observables())
	assert.Equal(t, []float64{1, 0.5, 0, 2}, set.Weights())
}

func TestSamplesRatioSkipsNonFinite(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	set, skipped, err := table.Samples(Selector{
		Observable: Field{Column: "energy"},
		Weight:     Field{Column: "ants", Per: "weight"},
	})
	require.NoError(t, err)
	// 0/0 is skipped, 0/2 is a legit zero weight.
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []float64{4, 16, 0}, set.Weights())
}

func TestSamplesErrors(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	_, _, err = table.Samples(Selector{
		Observable: Field{Column: "energy"},
		Weight:     Field{Column: "weight", Scale: -1},
	})
	assert.ErrorContains(t, err, "negative weight")
	_, _, err = table.Samples(Selector{
		Observable: Field{Column: "nope"},
		Weight:     Field{Column: "weight"},
	})
	assert.Error(t, err)
	_, _, err = table.Samples(Selector{
		Observable: Field{Column: "energy"},
	})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	assert.NoError(t, table.Check(Field{Column: "ants", Per: "zenith"}))
	assert.Error(t, table.Check(Field{Column: "ants", Per: "azimuth"}))
	assert.Error(t, table.Check(Field{}))
}

func TestFilter(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	filtered, err := table.Filter("ants", 0)
	require.NoError(t, err)
	assert.Len(t, filtered.Rows, 2)
	assert.Len(t, table.Rows, 4)
	assert.Equal(t, table.Generated, filtered.Generated)
	_, err = table.Filter("nope", 0)
	assert.Error(t, err)
}

func TestPoints(t *testing.T) {
	table, err := Parse(strings.NewReader(testStore))
	require.NoError(t, err)
	pts, err := table.Points(Field{Column: "ants", Scale: 0.25}, Field{Column: "zenith"}, Field{Column: "weight"})
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 91, 1}, {2, 95, 0.5}, {0, 80, 0}, {0, 100, 2}}, pts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		set Set
		ok  bool
	}{
		{Set{Generated: 1}, true},
		{Set{Generated: 0}, false},
		{Set{Generated: math.Inf(1)}, false},
		{Set{Generated: math.NaN()}, false},
		{Set{Generated: 1, Samples: []Sample{{1, -1}}}, false},
		{Set{Generated: 1, Samples: []Sample{{1, math.NaN()}}}, false},
		{Set{Generated: 1, Samples: []Sample{{math.NaN(), 1}}}, false},
		{Set{Generated: 1, Samples: []Sample{{math.Inf(-1), 1}}}, true},
	}
	for i, test := range tests {
		err := test.set.Validate()
		assert.Equal(t, test.ok, err == nil, "#%v: %v", i, err)
	}
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "weight", Field{Column: "weight"}.String())
	assert.Equal(t, "90-1*zenith", Field{Column: "zenith", Scale: -1, Offset: 90}.String())
	assert.Equal(t, "0.25*ants/weight", Field{Column: "ants", Per: "weight", Scale: 0.25}.String())
}
