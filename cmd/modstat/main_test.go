// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"circles/internal/diff"

	"github.com/google/pprof/profile"
)

func TestDefault(t *testing.T) {
	golden(t, "default", "-input", "report.json", "-groups", "groups.json")
}

func TestLevel(t *testing.T) {
	// YAML rules, ascending order, and a filter.
	golden(t, "level2", "-input", "report.json", "-groups", "groups.yaml", "-level", "2", "-sort", "a", "-filter", "Reco")
}

func TestLaTeX(t *testing.T) {
	// The cutoff drops Unassigned (1%) before spans are counted.
	golden(t, "latex", "-input", "report.json", "-groups", "groups.json", "-level", "2", "-latex", "-cutoff", "5")
}

func TestMarkdown(t *testing.T) {
	golden(t, "markdown", "-input", "report.json", "-groups", "groups.json", "-level", "0", "-markdown", "-filter", "IO")
}

func TestDebug(t *testing.T) {
	// A bad filter falls back to matching everything.
	golden(t, "debug", "-input", "report.json", "-groups", "groups.json", "-debug", "-filter", "(",
		"-metric", "mem_alloc", "-norm", "none", "-limit", "2")
}

func TestUsage(t *testing.T) {
	defer func(old func(int)) { exit = old }(exit)
	code := -1
	exit = func(c int) { code = c }

	var stdout, stderr bytes.Buffer
	if err := modstat(&stdout, &stderr, []string{"-input", "report.json"}); err != nil {
		t.Fatal(err)
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.HasPrefix(stderr.String(), "usage: modstat") {
		t.Errorf("no usage message; stderr:\n%s", stderr.String())
	}
}

func TestBadArgs(t *testing.T) {
	for _, args := range [][]string{
		{"-input", "testdata/report.json", "-groups", "testdata/groups.json", "-metric", "mem_total"},
		{"-input", "testdata/report.json", "-groups", "testdata/groups.json", "-sort", "x"},
		{"-input", "testdata/report.json", "-groups", "testdata/groups.json", "-latex", "-html"},
		{"-input", "testdata/missing.json", "-groups", "testdata/groups.json"},
	} {
		var stdout, stderr bytes.Buffer
		if err := modstat(&stdout, &stderr, args); err == nil {
			t.Errorf("modstat %s succeeded", strings.Join(args, " "))
		}
	}
}

func TestNoEvents(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	groups := filepath.Join(dir, "groups.json")
	const rep = `{
  "resources": [{"time_real": "real time"}],
  "total": {"type": "Job", "label": "HLT", "time_real": 30},
  "modules": [{"type": "PoolSource", "label": "source", "time_real": 30}]
}`
	if err := os.WriteFile(report, []byte(rep), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(groups, []byte(`{"|*": "All"}`), 0666); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := modstat(&stdout, &stderr, []string{"-input", report, "-groups", groups}); err != nil {
		t.Fatal(err)
	}
	// A report without an event count is taken as one event.
	if want := "\nAll: 30.00 100.00%\n"; !strings.Contains(stdout.String(), want) {
		t.Errorf("stdout does not contain %q:\n%s", want, stdout.String())
	}
}

func TestPprof(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prof.pb.gz")
	var stdout, stderr bytes.Buffer
	args := []string{"-input", "testdata/report.json", "-groups", "testdata/groups.json", "-pprof", path}
	if err := modstat(&stdout, &stderr, args); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p, err := profile.Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.SampleType) != 2 || p.SampleType[0].Type != "time_real" || p.SampleType[1].Type != "mem_alloc" {
		t.Fatalf("sample types = %v", p.SampleType)
	}
	// Per event, in microseconds: (120+60+30+60+3)/10 ms.
	var sum int64
	for _, s := range p.Sample {
		sum += s.Value[0]
	}
	if sum != 27300 {
		t.Errorf("time_real sum = %d, want 27300", sum)
	}
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	var got, gotErr bytes.Buffer
	t.Logf("modstat %s", strings.Join(args, " "))
	if err := modstat(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	compare(t, name, "stdout", got.Bytes())
	compare(t, name, "stderr", gotErr.Bytes())
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	d := diff.Diff("want", want, "got", got)
	if d == "" {
		return
	}
	t.Errorf("%s differs:\n%s", wantPath, d)

	// Write a "got" file for reference.
	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}
