// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// hotspot-compare tests whether an observable has the same distribution in two sample stores.
// Usage:
//
//	hotspot-compare -observable energy old.csv new.csv
package main

import (
	"flag"
	"fmt"

	"github.com/grand-mother/hotspot/pkg/compare"
	"github.com/grand-mother/hotspot/pkg/log"
	"github.com/grand-mother/hotspot/pkg/sample"
	"github.com/grand-mother/hotspot/pkg/summary"
	"github.com/grand-mother/hotspot/pkg/tool"
)

var flagObservable = flag.String("observable", "", "column to compare")

func main() {
	defer tool.Init("-observable column store1 store2", 2, 2)()
	if *flagObservable == "" {
		tool.Failf("no -observable")
	}
	var values [2][]float64
	for i, file := range flag.Args() {
		table, err := sample.Load(file)
		if err != nil {
			tool.Fail(err)
		}
		if values[i], err = table.Column(*flagObservable); err != nil {
			tool.Failf("%v: %v", file, err)
		}
		log.Logf(1, "loaded %v rows from %v", len(table.Rows), file)
		fmt.Printf("%v %v\n", file, summary.Describe(*flagObservable, values[i]))
	}
	res, err := compare.Compare(values[0], values[1])
	if err != nil {
		tool.Fail(err)
	}
	fmt.Printf("%v: %v\n", *flagObservable, res)
}
