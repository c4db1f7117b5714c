// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sample

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grand-mother/hotspot/pkg/osutil"
)

// Sample stores are CSV files with a header row of column names.
// Leading comment lines may carry metadata, the only one understood is the generated event count:
//
//	# generated: 50200
//	weight,energy,zenith
//	1.2e-3,3.1e9,91.5
//
// Files with the .xz suffix are transparently decompressed.

const generatedKey = "generated"

// Load reads a sample store from a file.
func Load(filename string) (*Table, error) {
	if err := osutil.IsAccessible(filename); err != nil {
		return nil, err
	}
	f, err := osutil.OpenCompressed(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return t, nil
}

// Parse reads a sample store from r.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	t := new(Table)
	for {
		next, err := br.Peek(1)
		if err != nil || next[0] != '#' {
			break
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err := t.parseComment(line); err != nil {
			return nil, err
		}
	}
	rd := csv.NewReader(br)
	rd.Comment = '#'
	rd.TrimLeadingSpace = true
	header, err := rd.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col == "" || seen[col] {
			return nil, fmt.Errorf("bad or duplicate column name %q", col)
		}
		seen[col] = true
		t.Columns = append(t.Columns, col)
	}
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(rec))
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := rd.FieldPos(i)
				return nil, fmt.Errorf("line %v, column %q: %w", line, t.Columns[i], err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (t *Table) parseComment(line string) error {
	line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, val, ok := strings.Cut(line, ":")
	if !ok || strings.TrimSpace(key) != generatedKey {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fmt.Errorf("bad generated count %q: %w", val, err)
	}
	t.Generated = v
	return nil
}

// Serialize produces the store representation of the table.
func (t *Table) Serialize() []byte {
	buf := new(bytes.Buffer)
	if t.Generated != 0 {
		fmt.Fprintf(buf, "# %v: %v\n", generatedKey, strconv.FormatFloat(t.Generated, 'g', -1, 64))
	}
	w := csv.NewWriter(buf)
	w.Write(t.Columns)
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		w.Write(rec)
	}
	w.Flush()
	return buf.Bytes()
}
