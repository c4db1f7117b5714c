// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// hotspot-describe prints descriptive statistics of sample store columns
// and the integrated rate of the store.
// Usage:
//
//	hotspot-describe -columns ants,energy [-above 4] [-weight weight] store.csv[.xz]
package main

import (
	"flag"
	"fmt"

	"github.com/grand-mother/hotspot/pkg/rate"
	"github.com/grand-mother/hotspot/pkg/sample"
	"github.com/grand-mother/hotspot/pkg/summary"
	"github.com/grand-mother/hotspot/pkg/tool"
)

var (
	flagColumns tool.ListFlag
	flagAbove   = flag.Float64("above", 0, "only describe rows where the column is above this value")
	flagWeight  = flag.String("weight", "weight", "weight column for the integrated rate (empty to skip)")
)

func main() {
	flag.Var(&flagColumns, "columns", "comma-separated list of columns to describe (all by default)")
	defer tool.Init("[-columns a,b] [-above x] store", 1, 1)()
	table, err := sample.Load(flag.Arg(0))
	if err != nil {
		tool.Fail(err)
	}
	columns := []string(flagColumns)
	if len(columns) == 0 {
		columns = table.Columns
	}
	aboveSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "above" {
			aboveSet = true
		}
	})
	for _, col := range columns {
		t := table
		if aboveSet {
			if t, err = table.Filter(col, *flagAbove); err != nil {
				tool.Fail(err)
			}
		}
		values, err := t.Column(col)
		if err != nil {
			tool.Fail(err)
		}
		s := summary.Describe(col, values)
		fmt.Println(s)
		for _, q := range s.Quantiles {
			fmt.Printf("\tq%02.0f=%.4g\n", q.Level*100, q.Value)
		}
	}
	if *flagWeight == "" {
		return
	}
	weight := sample.Field{Column: *flagWeight}
	set, _, err := table.Samples(sample.Selector{Observable: weight, Weight: weight})
	if err != nil {
		tool.Fail(err)
	}
	total, err := rate.Integrated(set)
	if err != nil {
		tool.Fail(err)
	}
	fmt.Printf("rate: %v (%v generated)\n", total, table.Generated)
}
