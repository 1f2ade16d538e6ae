// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		tab = Table{}
	}

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("").Cell("")
	check("a     b  c\nlong\n")

	// Right alignment.
	tab.Row().Cell("x").Cell("1.00", Right)
	tab.Row().Cell("y").Cell("100.00", Right)
	check("x    1.00\ny  100.00\n")

	// Spans widen the last covered column.
	tab.Row().Cell("a").Cell("b")
	tab.Row().Span(2, "abcdefg")
	check("a  b\nabcdefg\n")

	// Rules cover the whole width.
	tab.Row().Cell("ab").Cell("cd")
	tab.Rule('-')
	tab.Cell("e").Cell("f")
	check("ab  cd\n------\ne   f\n")

	// Unicode widths.
	tab.Row().Cell("☃").Cell("x")
	tab.Row().Cell("ab").Cell("y")
	check("☃   x\nab  y\n")
}
