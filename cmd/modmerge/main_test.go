// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"circles/internal/diff"
	"circles/modfmt"
)

func TestMerge(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := modmerge(&stdout, &stderr, []string{"testdata/a.json", "testdata/b.json"}); err != nil {
		t.Fatal(err)
	}
	check := func(name string, got []byte) {
		t.Helper()
		want, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if d := diff.Diff(name, want, "got", got); d != "" {
			t.Errorf("%s", d)
		}
	}
	check("merge.stdout", stdout.Bytes())
	check("merge.stderr", stderr.Bytes())
}

func TestMergeSingle(t *testing.T) {
	// A single report is rewritten unchanged.
	var stdout, stderr bytes.Buffer
	if err := modmerge(&stdout, &stderr, []string{"testdata/a.json"}); err != nil {
		t.Fatal(err)
	}
	rep, err := modfmt.Read(&stdout, "stdout")
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Modules) != 2 || rep.Events() != 10 || rep.TotalValue("time_real") != 100 {
		t.Errorf("got %d modules, %d events, time_real %v", len(rep.Modules), rep.Events(), rep.TotalValue("time_real"))
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected warnings:\n%s", stderr.String())
	}
}

func TestMergeMismatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := modmerge(&stdout, &stderr, []string{"testdata/a.json", "testdata/timeonly.json"})
	if !errors.Is(err, modfmt.ErrResourceMismatch) {
		t.Errorf("got error %v, want %v", err, modfmt.ErrResourceMismatch)
	}
	if stdout.Len() != 0 {
		t.Errorf("output written despite error:\n%s", stdout.String())
	}
}

func TestUsage(t *testing.T) {
	defer func(old func(int)) { exit = old }(exit)
	code := -1
	exit = func(c int) { code = c }
	var stdout, stderr bytes.Buffer
	if err := modmerge(&stdout, &stderr, nil); err != nil {
		t.Fatal(err)
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
