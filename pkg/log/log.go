// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log is a thin leveled wrapper around the standard log package:
//   - a global verbosity (-vv flag) shared by all packages
//   - optional in-memory cache of recent messages, so that tools can attach them to reports
package log

import (
	"flag"
	"fmt"
	golog "log"
	"strings"
	"sync"
	"time"
)

var (
	flagV = flag.Int("vv", 0, "verbosity")

	mu          sync.Mutex
	cache       []string
	cachePos    int
	cacheMem    int
	cacheMaxMem int
	prependTime = true // for testing
)

// EnableLogCaching keeps up to maxLines recent messages of verbosity <= 1 in memory,
// but no more than maxMem bytes in total.
func EnableLogCaching(maxLines, maxMem int) {
	mu.Lock()
	defer mu.Unlock()
	if cache != nil {
		golog.Fatalf("log caching is already enabled")
	}
	if maxLines < 1 || maxMem < 1 {
		panic("invalid maxLines/maxMem")
	}
	cache = make([]string, maxLines)
	cacheMaxMem = maxMem
}

// CachedLogOutput returns the cached messages, oldest first.
func CachedLogOutput() string {
	mu.Lock()
	defer mu.Unlock()
	var sb strings.Builder
	for i := range cache {
		entry := cache[(cachePos+i)%len(cache)]
		if entry == "" {
			continue
		}
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func Logf(v int, msg string, args ...any) {
	mu.Lock()
	print := v <= *flagV
	if cache != nil && v <= 1 {
		remember(msg, args)
	}
	mu.Unlock()
	if print {
		golog.Printf(msg, args...)
	}
}

func remember(msg string, args []any) {
	entry := fmt.Sprintf(msg, args...)
	if prependTime {
		entry = time.Now().Format("2006/01/02 15:04:05 ") + entry
	}
	cacheMem += len(entry) - len(cache[cachePos])
	cache[cachePos] = entry
	cachePos = (cachePos + 1) % len(cache)
	// Evict the oldest entries until we fit, but always keep the newest one.
	for i := 0; i < len(cache)-1 && cacheMem > cacheMaxMem; i++ {
		pos := (cachePos + i) % len(cache)
		cacheMem -= len(cache[pos])
		cache[pos] = ""
	}
}

func Fatal(err error) {
	golog.Fatal(err)
}

func Fatalf(msg string, args ...any) {
	golog.Fatalf(msg, args...)
}
