// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestIsExist(t *testing.T) {
	if f := os.Args[0]; !IsExist(f) {
		t.Fatalf("executable %v does not exist", f)
	}
	if f := os.Args[0] + "-foo-bar-buz"; IsExist(f) {
		t.Fatalf("file %v exists", f)
	}
	assert.Error(t, IsAccessible(os.Args[0]+"-foo-bar-buz"))
	assert.NoError(t, IsAccessible(os.Args[0]))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sub", "report.json")
	require.NoError(t, MkdirAll(filepath.Dir(file)))
	require.NoError(t, WriteFile(file, []byte("first")))
	require.NoError(t, WriteFile(file, []byte("second")))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	entries, err := os.ReadDir(filepath.Dir(file))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("weight,energy\n1,2\n"), 100)

	plain := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(plain, payload, DefaultFilePerm))

	buf := new(bytes.Buffer)
	w, err := xz.NewWriter(buf)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	compressed := filepath.Join(dir, "samples.csv.xz")
	require.NoError(t, os.WriteFile(compressed, buf.Bytes(), DefaultFilePerm))

	for _, file := range []string{plain, compressed} {
		r, err := OpenCompressed(file)
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, payload, data, file)
	}

	bogus := filepath.Join(dir, "bogus.xz")
	require.NoError(t, os.WriteFile(bogus, []byte("not xz"), DefaultFilePerm))
	_, err = OpenCompressed(bogus)
	assert.Error(t, err)
}
