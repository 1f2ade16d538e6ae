// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	if d := Diff("a", []byte("x\ny\n"), "b", []byte("x\ny\n")); d != "" {
		t.Errorf("equal inputs: got %q", d)
	}
	d := Diff("want", []byte("x\ny\n"), "got", []byte("x\nz\n"))
	if !strings.Contains(d, "y") || !strings.Contains(d, "z") {
		t.Errorf("diff does not mention the changed line:\n%s", d)
	}
}

func TestFirstDifference(t *testing.T) {
	got := firstDifference("want", []byte("a\nb\n"), "got", []byte("a\nc\n"))
	want := "line 2:\nwant: \"b\"\ngot: \"c\"\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	got = firstDifference("want", []byte("a"), "got", []byte("a\nb"))
	if !strings.HasPrefix(got, "line 2:") {
		t.Errorf("extra line not reported: %q", got)
	}
}
