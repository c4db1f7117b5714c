// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"testing"
)

func init() {
	EnableLogCaching(4, 20)
}

func TestCaching(t *testing.T) {
	tests := []struct{ str, want string }{
		{"", ""},
		{"a", "a\n"},
		{"bb", "a\nbb\n"},
		{"ccc", "a\nbb\nccc\n"},
		{"dddd", "a\nbb\nccc\ndddd\n"},
		{"eeeee", "bb\nccc\ndddd\neeeee\n"},
		{"ffffff", "ccc\ndddd\neeeee\nffffff\n"},
		{"ggggggg", "eeeee\nffffff\nggggggg\n"},
		{"hhhhhhhh", "ggggggg\nhhhhhhhh\n"},
		{"jjjjjjjjjjjjjjjjjjjjjjjjj", "jjjjjjjjjjjjjjjjjjjjjjjjj\n"},
	}
	prependTime = false
	for _, test := range tests {
		Logf(1, "%s", test.str)
		out := CachedLogOutput()
		if out != test.want {
			t.Fatalf("wrote: %v\nwant: %v\ngot: %v", test.str, test.want, out)
		}
	}
}

func TestCacheMemoryLimit(t *testing.T) {
	mu.Lock()
	savedCache, savedPos, savedMem, savedMax, savedTime := cache, cachePos, cacheMem, cacheMaxMem, prependTime
	cache, cachePos, cacheMem, cacheMaxMem, prependTime = make([]string, 3), 0, 0, 10, false
	mu.Unlock()
	defer func() {
		mu.Lock()
		cache, cachePos, cacheMem, cacheMaxMem, prependTime = savedCache, savedPos, savedMem, savedMax, savedTime
		mu.Unlock()
	}()

	steps := []struct {
		msg  string
		want string
		mem  int
	}{
		{"abc", "abc\n", 3},
		{"de", "abc\nde\n", 5},
		{"fghi", "abc\nde\nfghi\n", 9},
		// Overwrites the oldest slot, then still exceeds the limit.
		{"jklmn", "fghi\njklmn\n", 9},
		// Larger than the limit on its own, but the newest entry is always kept.
		{"opqrstuvwxyz", "opqrstuvwxyz\n", 12},
		{"0", "0\n", 1},
	}
	for _, step := range steps {
		Logf(1, "%s", step.msg)
		if got := CachedLogOutput(); got != step.want {
			t.Fatalf("wrote: %q\nwant: %q\ngot: %q", step.msg, step.want, got)
		}
		mu.Lock()
		mem := cacheMem
		mu.Unlock()
		if mem != step.mem {
			t.Fatalf("wrote: %q: cached %v bytes, want %v", step.msg, mem, step.mem)
		}
	}
	Logf(2, "not cached")
	if got := CachedLogOutput(); got != "0\n" {
		t.Fatalf("verbose message cached: %q", got)
	}
}
