// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rate

import (
	"fmt"
	"math"

	"github.com/grand-mother/hotspot/pkg/binning"
	"github.com/grand-mother/hotspot/pkg/sample"
	"go-hep.org/x/hep/hbook"
)

// Map is a 2D rate density, per unit of X and per unit of Y.
// P and DP are indexed as [y][x] (rows are Y bins), the layout image renderers expect.
type Map struct {
	X  []float64
	Y  []float64
	P  [][]float64
	DP [][]float64
}

// EstimateMap is the 2D analogue of Estimate. Each axis is normalized independently,
// including the Jacobian for logarithmic axes.
func EstimateMap(points []sample.Point, generated float64, xbins, ybins *binning.Set) (*Map, error) {
	if !(generated > 0) || math.IsInf(generated, 0) {
		return nil, fmt.Errorf("generated event count must be positive, got %v", generated)
	}
	if xbins == nil || ybins == nil || xbins.Len() == 0 || ybins.Len() == 0 {
		return nil, fmt.Errorf("%w: empty bin set", binning.ErrInvalidDomain)
	}
	// One 1D histogram per Y row.
	rows := make([]*hbook.H1D, ybins.Len())
	xedges := xbins.Edges()
	for i := range rows {
		rows[i] = hbook.NewH1DFromEdges(xedges)
	}
	for i, pt := range points {
		if math.IsNaN(pt.Weight) || pt.Weight < 0 {
			return nil, fmt.Errorf("point %v: bad weight %v", i, pt.Weight)
		}
		ix, iy := xbins.Index(pt.X), ybins.Index(pt.Y)
		if ix < 0 || iy < 0 {
			continue
		}
		rows[iy].Fill(xbins.Bins[ix].X, pt.Weight)
	}
	m := &Map{
		X:  xbins.Centers(),
		Y:  ybins.Centers(),
		P:  make([][]float64, ybins.Len()),
		DP: make([][]float64, ybins.Len()),
	}
	for iy, yb := range ybins.Bins {
		m.P[iy] = make([]float64, xbins.Len())
		m.DP[iy] = make([]float64, xbins.Len())
		ynorm := 1 / yb.Width
		if ybins.Scale == binning.Log {
			ynorm /= yb.X
		}
		for ix, xb := range xbins.Bins {
			acc := &rows[iy].Binning.Bins[ix]
			est := density(xb, xbins.Scale, acc.SumW(), acc.SumW2(), generated, 0)
			m.P[iy][ix] = est.P * ynorm
			m.DP[iy][ix] = est.DP * ynorm
		}
	}
	return m, nil
}
