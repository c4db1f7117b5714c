// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// ParseFlags parses args and checks the number of positional arguments.
func ParseFlags(set *flag.FlagSet, args []string, minArgs, maxArgs int) error {
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < minArgs {
		return fmt.Errorf("want at least %v arguments, got %v", minArgs, set.NArg())
	}
	if maxArgs >= 0 && set.NArg() > maxArgs {
		return fmt.Errorf("want at most %v arguments, got %v: %q", maxArgs, set.NArg(), set.Args())
	}
	return nil
}

// ListFlag allows passing a comma-separated list of values (e.g. column names) to a single flag.
type ListFlag []string

func (list *ListFlag) String() string {
	return strings.Join(*list, ",")
}

func (list *ListFlag) Set(value string) error {
	if len(*list) > 0 {
		return errors.New("list flag is already set")
	}
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return fmt.Errorf("empty element in list %q", value)
		}
		*list = append(*list, elem)
	}
	return nil
}
