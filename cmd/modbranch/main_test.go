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
	"circles/modproc"

	"github.com/google/go-cmp/cmp"
)

func TestBranch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := modbranch(&stdout, &stderr, []string{"-o", "-", "testdata/report.json"}); err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile("testdata/branch.json")
	if err != nil {
		t.Fatal(err)
	}
	if d := diff.Diff("want", want, "got", stdout.Bytes()); d != "" {
		t.Errorf("branch.json differs:\n%s", d)
	}
}

func TestBranchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")
	var stdout, stderr bytes.Buffer
	if err := modbranch(&stdout, &stderr, []string{"-o", path, "testdata/report.json"}); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout:\n%s", stdout.String())
	}

	// The written file is a usable grouping file.
	rules, err := modproc.LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := modproc.Compile(rules)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, typ := range []string{"hlt_Tracking_Producer", "hlt_Calo_Towers", "PoolSource"} {
		got[typ], _ = c.Match(typ, "x")
	}
	want := map[string]string{
		"hlt_Tracking_Producer": "Tracking",
		"hlt_Calo_Towers":       "Calo",
		"PoolSource":            "other",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUsage(t *testing.T) {
	defer func(old func(int)) { exit = old }(exit)
	code := -1
	exit = func(c int) { code = c }

	var stdout, stderr bytes.Buffer
	if err := modbranch(&stdout, &stderr, nil); err != nil {
		t.Fatal(err)
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.HasPrefix(stderr.String(), "usage: modbranch") {
		t.Errorf("no usage message; stderr:\n%s", stderr.String())
	}
}
