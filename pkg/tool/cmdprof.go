// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/grand-mother/hotspot/pkg/log"
)

// installProfiling starts CPU profiling right away, the returned function stops it
// and dumps the heap profile. Both file names are optional.
func installProfiling(cpuprof, memprof string) func() {
	var cpuFile *os.File
	if cpuprof != "" {
		f, err := os.Create(cpuprof)
		if err != nil {
			Failf("failed to create cpu profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			Failf("failed to start cpu profile: %v", err)
		}
		cpuFile = f
	}
	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
			log.Logf(1, "wrote cpu profile to %v", cpuprof)
		}
		if memprof == "" {
			return
		}
		f, err := os.Create(memprof)
		if err != nil {
			Failf("failed to create mem profile: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			Failf("failed to write mem profile: %v", err)
		}
		log.Logf(1, "wrote mem profile to %v", memprof)
	}
}
