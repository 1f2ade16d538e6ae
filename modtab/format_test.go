// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modtab

import (
	"io"
	"strings"
	"testing"

	"circles/internal/diff"
	"circles/modtree"
)

func testTable() *Table {
	root := modtree.Build("root",
		[]string{"Reco|Tracking", "IO|PoolSource", "Reco|Calo", "IO|Misc"},
		[][]float64{{12, 40}, {3, 10}, {6, 20}, {0.3, 1}})
	return Layout(root, Options{
		Headers:   []string{"Package", "Type"},
		Columns:   []Column{{Header: "Value"}, {Header: "%", Percent: true}},
		Cutoff:    2,
		CutoffCol: 1,
		Order:     Descending,
		SortCol:   0,
	})
}

func checkFormat(t *testing.T, format func(io.Writer, *Table) error, want string) {
	t.Helper()
	var buf strings.Builder
	if err := format(&buf, testTable()); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != want {
		t.Errorf("output differs:\n%s", diff.Diff("want", []byte(want), "got", []byte(got)))
	}
}

func TestFormatLaTeX(t *testing.T) {
	checkFormat(t, FormatLaTeX, `\begin{tabular}{llrr}
\hline
Package & Type & Value & \% \\
\hline
\multirow{2}{*}{Reco} & Tracking & 12.00 & 40.00\% \\
\cline{2-4}
 & Calo & 6.00 & 20.00\% \\
\hline
IO & PoolSource & 3.00 & 10.00\% \\
\hline
\end{tabular}
`)
}

func TestFormatMarkdown(t *testing.T) {
	checkFormat(t, FormatMarkdown, `| Package | Type | Value | % |
| --- | --- | ---: | ---: |
| Reco | Tracking | 12.00 | 40.00% |
|  | Calo | 6.00 | 20.00% |
| IO | PoolSource | 3.00 | 10.00% |
`)
}

func TestFormatText(t *testing.T) {
	checkFormat(t, FormatText, `Package  Type        Value       %
----------------------------------
Reco     Tracking    12.00  40.00%
         Calo         6.00  20.00%
IO       PoolSource   3.00  10.00%
`)
}

func TestFormatHTML(t *testing.T) {
	var buf strings.Builder
	if err := FormatHTML(&buf, testTable()); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<td rowspan='2'>Reco") {
		t.Errorf("missing spanning cell:\n%s", got)
	}
	// Two label cells for the first and last rows, one for the
	// row under the span, plus two values per row.
	if n := strings.Count(got, "<td"); n != 2+1+2+3*2 {
		t.Errorf("got %d cells, want 11:\n%s", n, got)
	}
}

func TestLatexEscape(t *testing.T) {
	got := latexEscaper.Replace(`a_b&c%d\e{f}`)
	want := `a\_b\&c\%d\textbackslash{}e\{f\}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
