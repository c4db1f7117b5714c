// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains helpers shared by the hotspot command line tools.
package tool

import (
	"flag"
	"fmt"
	"os"
)

func Failf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}

// Init parses command line flags of the tool and installs profiling.
// The tool must call the returned function before exiting.
// The tool expects between minArgs and maxArgs positional arguments, maxArgs < 0 means unlimited.
func Init(usage string, minArgs, maxArgs int) func() {
	flagCPUProfile := flag.String("cpuprofile", "", "write CPU profile to this file")
	flagMemProfile := flag.String("memprofile", "", "write memory profile to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v %v\n", os.Args[0], usage)
		flag.PrintDefaults()
	}
	if err := ParseFlags(flag.CommandLine, os.Args[1:], minArgs, maxArgs); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	return installProfiling(*flagCPUProfile, *flagMemProfile)
}
