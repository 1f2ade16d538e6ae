// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"circles/internal/diff"
	"circles/modfmt"
	"circles/modproc"
	"circles/palette"

	"github.com/google/go-cmp/cmp"
)

func TestType(t *testing.T) {
	// Mystery has no value in new, so -top 3 drops it.
	golden(t, "type", "-groups", "groups.json", "-level", "type", "-top", "3", "-labels", "old,new", "old.json", "new.json")
}

func TestPackagePerEvent(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "cmp.svg")
	golden(t, "package", "-groups", "groups.json", "-colours", "colours.yaml", "-per-event", "-require-map",
		"-sort-by", "A", "-o", chart, "old.json", "new.json")
	data, err := os.ReadFile(chart)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("%s is not an SVG file", chart)
	}
}

func TestExpanded(t *testing.T) {
	golden(t, "expanded", "-groups", "groups.json", "-metric", "mem_alloc", "-level", "expanded",
		"-package-regex", "^(IO|Reco)$", "-sort-by", "sum", "new.json")
}

func TestUsage(t *testing.T) {
	defer func(old func(int)) { exit = old }(exit)
	code := -1
	exit = func(c int) { code = c }

	var stdout, stderr bytes.Buffer
	if err := modcompare(&stdout, &stderr, []string{"old.json"}); err != nil {
		t.Fatal(err)
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.HasPrefix(stderr.String(), "usage: modcompare") {
		t.Errorf("no usage message; stderr:\n%s", stderr.String())
	}
}

func TestBadArgs(t *testing.T) {
	files := []string{"testdata/old.json", "testdata/new.json"}
	for _, args := range [][]string{
		{"-labels", "a,b,c"},
		{"-baseline", "2"},
		{"-sort-by", "median"},
		{"-level", "branch"},
		{"-package-regex", "("},
		{"-o", filepath.Join(t.TempDir(), "cmp.gif")},
	} {
		args = append([]string{"-groups", "testdata/groups.json"}, args...)
		args = append(args, files...)
		var stdout, stderr bytes.Buffer
		if err := modcompare(&stdout, &stderr, args); err == nil {
			t.Errorf("modcompare %s succeeded", strings.Join(args, " "))
		}
	}
}

func testComparison(t *testing.T, level modproc.Level) (*comparison, options) {
	t.Helper()
	rules, err := modproc.LoadRules("testdata/groups.json")
	if err != nil {
		t.Fatal(err)
	}
	cl, err := modproc.Compile(rules)
	if err != nil {
		t.Fatal(err)
	}
	reps, err := modfmt.ReadFiles([]string{"testdata/old.json", "testdata/new.json"})
	if err != nil {
		t.Fatal(err)
	}
	opts := options{level: level, metric: "time_real"}
	return compare(reps, cl, opts), opts
}

func TestSortBy(t *testing.T) {
	check := func(key string, top int, want []string) {
		t.Helper()
		c, _ := testComparison(t, modproc.LevelType)
		fn, err := sortKey(key)
		if err != nil {
			t.Fatal(err)
		}
		c.sortBy(fn)
		c.truncate(top)
		if diff := cmp.Diff(want, c.cats); diff != "" {
			t.Errorf("-sort-by %s -top %d (-want +got):\n%s", key, top, diff)
		}
		for i, row := range c.values {
			if len(row) != len(c.cats) {
				t.Errorf("report %d has %d values for %d categories", i, len(row), len(c.cats))
			}
		}
	}
	check("A", 0, []string{"TrackProducer", "CaloProducer", "PoolSource", "Mystery"})
	check("B", 2, []string{"TrackProducer", "CaloProducer"})
	check("diff", 0, []string{"CaloProducer", "TrackProducer", "Mystery", "PoolSource"})
	check("max", 1, []string{"TrackProducer"})
	check("sum", 0, []string{"TrackProducer", "CaloProducer", "PoolSource", "Mystery"})
}

func TestColors(t *testing.T) {
	pal, err := palette.Load("testdata/colours.yaml")
	if err != nil {
		t.Fatal(err)
	}
	reco, _ := pal.Lookup("Reco")

	c, opts := testComparison(t, modproc.LevelPackage)
	got := c.colors(pal, opts)
	want := []color.Color{pal.Base("IO"), reco, pal.Base(modproc.Unassigned)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("package colours (-want +got):\n%s", diff)
	}

	c, opts = testComparison(t, modproc.LevelType)
	got = c.colors(pal, opts)
	// Categories are sorted: CaloProducer, Mystery, PoolSource, TrackProducer.
	if got[0] != palette.Vary(reco, "CaloProducer") || got[3] != palette.Vary(reco, "TrackProducer") {
		t.Errorf("type colours are not shades of the Reco colour: %v", got)
	}
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	var got, gotErr bytes.Buffer
	t.Logf("modcompare %s", strings.Join(args, " "))
	if err := modcompare(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	compareGolden(t, name, "stdout", got.Bytes())
	compareGolden(t, name, "stderr", gotErr.Bytes())
}

func compareGolden(t *testing.T, name, sub string, got []byte) {
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

	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}
