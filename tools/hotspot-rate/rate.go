// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// hotspot-rate estimates rate distributions of a sample store and fits models to them.
// Usage:
//
//	hotspot-rate -config analysis.yaml [-out dir] [-format json|yaml|csv] [-j N] [-metrics file] store.csv[.xz]
//
// One report per histogram, one matrix per rate map, summary.json and the log of the run
// are written into the output directory. The integrated rate is printed to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grand-mother/hotspot/pkg/analysis"
	"github.com/grand-mother/hotspot/pkg/log"
	"github.com/grand-mother/hotspot/pkg/osutil"
	"github.com/grand-mother/hotspot/pkg/report"
	"github.com/grand-mother/hotspot/pkg/sample"
	"github.com/grand-mother/hotspot/pkg/tool"
)

var (
	flagConfig   = flag.String("config", "", "analysis config file (JSON or YAML)")
	flagOut      = flag.String("out", "", "output directory (hotspot-<run id> by default)")
	flagFormat   = flag.String("format", string(report.JSON), "report format: json, yaml or csv")
	flagParallel = flag.Int("j", 0, "number of parallel jobs (all CPUs by default)")
	flagMetrics  = flag.String("metrics", "", "write prometheus metrics of the run into this file")
)

func main() {
	defer tool.Init("-config file [flags] store", 1, 1)()
	log.EnableLogCaching(1000, 1<<20)
	format, err := report.ParseFormat(*flagFormat)
	if err != nil {
		tool.Fail(err)
	}
	cfg, err := analysis.LoadConfig(*flagConfig)
	if err != nil {
		tool.Fail(err)
	}
	runID := uuid.NewString()
	out := *flagOut
	if out == "" {
		out = "hotspot-" + runID[:8]
	}
	log.Logf(0, "run %v: analyzing %v into %v", runID, flag.Arg(0), out)
	table, err := sample.Load(flag.Arg(0))
	if err != nil {
		tool.Fail(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := analysis.Run(ctx, table, cfg, *flagParallel)
	if err != nil {
		tool.Fail(err)
	}
	if err := res.Save(out, format); err != nil {
		tool.Fail(err)
	}
	if *flagMetrics != "" {
		if err := res.WriteMetrics(*flagMetrics); err != nil {
			tool.Fail(err)
		}
	}
	for _, h := range res.Histograms {
		m := h.Moments
		log.Logf(0, "%v: total rate %.3g, mean %.4g, sigma %.4g, %v entries, %v skipped",
			h.Report.Name, m.TotalRate, m.Mean, m.Sigma, h.Entries, h.Skipped)
	}
	logFile := filepath.Join(out, "log.txt")
	if err := osutil.WriteFile(logFile, []byte(log.CachedLogOutput())); err != nil {
		tool.Fail(err)
	}
	fmt.Printf("rate: %v (per generated event, %v generated)\n", res.Total, res.Generated)
}
