// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sample

import (
	"fmt"
	"math"
)

// Table is a loaded sample store: numeric rows with named columns.
// Tables are not modified after loading, Filter returns a new table sharing rows.
type Table struct {
	Generated float64
	Columns   []string
	Rows      [][]float64
}

// Field describes a derived per-row value: Offset + Scale*Column/Per.
// Per is optional, zero Scale means 1.
type Field struct {
	Column string  `json:"column"`
	Per    string  `json:"per,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Offset float64 `json:"offset,omitempty"`
}

// Selector picks the observable and the weight of every row.
type Selector struct {
	Observable Field
	Weight     Field
}

func (f Field) String() string {
	s := f.Column
	if f.Per != "" {
		s += "/" + f.Per
	}
	if f.Scale != 0 && f.Scale != 1 {
		s = fmt.Sprintf("%v*%v", f.Scale, s)
	}
	if f.Offset != 0 {
		s = fmt.Sprintf("%v%+v", f.Offset, s)
	}
	return s
}

func (t *Table) columnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no column %q in the sample store", name)
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		res[i] = row[idx]
	}
	return res, nil
}

// Values evaluates the field for every row.
func (t *Table) Values(f Field) ([]float64, error) {
	eval, err := t.compile(f)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		res[i] = eval(row)
	}
	return res, nil
}

func (t *Table) compile(f Field) (func(row []float64) float64, error) {
	if f.Column == "" {
		return nil, fmt.Errorf("field has no column")
	}
	idx, err := t.columnIndex(f.Column)
	if err != nil {
		return nil, err
	}
	per := -1
	if f.Per != "" {
		if per, err = t.columnIndex(f.Per); err != nil {
			return nil, err
		}
	}
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	return func(row []float64) float64 {
		v := row[idx]
		if per >= 0 {
			v /= row[per]
		}
		return f.Offset + scale*v
	}, nil
}

// Check verifies that all columns referenced by f exist.
func (t *Table) Check(f Field) error {
	if _, err := t.compile(f); err != nil {
		return fmt.Errorf("field %v: %w", f, err)
	}
	return nil
}

// Samples projects the table on the selector.
// Rows where either value is not finite (e.g. 0/0 ratios) are skipped and counted,
// a negative weight is an error.
func (t *Table) Samples(sel Selector) (*Set, int, error) {
	obs, err := t.compile(sel.Observable)
	if err != nil {
		return nil, 0, fmt.Errorf("observable %v: %w", sel.Observable, err)
	}
	weight, err := t.compile(sel.Weight)
	if err != nil {
		return nil, 0, fmt.Errorf("weight %v: %w", sel.Weight, err)
	}
	set := &Set{
		Samples:   make([]Sample, 0, len(t.Rows)),
		Generated: t.Generated,
	}
	skipped := 0
	for i, row := range t.Rows {
		smp := Sample{
			Observable: obs(row),
			Weight:     weight(row),
		}
		if !finite(smp.Observable) || !finite(smp.Weight) {
			skipped++
			continue
		}
		if smp.Weight < 0 {
			return nil, 0, fmt.Errorf("row %v: negative weight %v", i, smp.Weight)
		}
		set.Samples = append(set.Samples, smp)
	}
	return set, skipped, nil
}

// Points projects the table on two observables sharing one weight.
func (t *Table) Points(x, y, w Field) ([]Point, error) {
	var evals [3]func([]float64) float64
	for i, f := range []Field{x, y, w} {
		eval, err := t.compile(f)
		if err != nil {
			return nil, fmt.Errorf("field %v: %w", f, err)
		}
		evals[i] = eval
	}
	var res []Point
	for i, row := range t.Rows {
		pt := Point{evals[0](row), evals[1](row), evals[2](row)}
		if !finite(pt.X) || !finite(pt.Y) || !finite(pt.Weight) {
			continue
		}
		if pt.Weight < 0 {
			return nil, fmt.Errorf("row %v: negative weight %v", i, pt.Weight)
		}
		res = append(res, pt)
	}
	return res, nil
}

// Filter returns the table restricted to rows where column > above.
func (t *Table) Filter(column string, above float64) (*Table, error) {
	idx, err := t.columnIndex(column)
	if err != nil {
		return nil, err
	}
	res := &Table{
		Generated: t.Generated,
		Columns:   t.Columns,
	}
	for _, row := range t.Rows {
		if row[idx] > above {
			res.Rows = append(res.Rows, row)
		}
	}
	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
