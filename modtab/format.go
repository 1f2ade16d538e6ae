// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modtab

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"circles/internal/texttab"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// FormatLaTeX writes t as a LaTeX tabular environment. Spanning
// cells use \multirow, so the document needs the multirow package.
// A group boundary below the outermost level is marked with \cline
// over the columns it separates.
func FormatLaTeX(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	ncols := len(t.Headers) + len(t.Columns)

	fmt.Fprintf(bw, "\\begin{tabular}{%s%s}\n", strings.Repeat("l", len(t.Headers)), strings.Repeat("r", len(t.Columns)))
	fmt.Fprintf(bw, "\\hline\n")
	var hdr []string
	for _, h := range t.Headers {
		hdr = append(hdr, latexEscaper.Replace(h))
	}
	for _, c := range t.Columns {
		hdr = append(hdr, latexEscaper.Replace(c.Header))
	}
	fmt.Fprintf(bw, "%s \\\\\n\\hline\n", strings.Join(hdr, " & "))

	for i, r := range t.Rows {
		var cells []string
		for _, c := range r.Cells {
			text := latexEscaper.Replace(c.Text)
			switch {
			case c.Hidden():
				text = ""
			case c.Span > 1:
				text = fmt.Sprintf("\\multirow{%d}{*}{%s}", c.Span, text)
			}
			cells = append(cells, text)
		}
		for j, v := range r.Values {
			if j < len(t.Columns) {
				cells = append(cells, latexEscaper.Replace(formatValue(v, t.Columns[j])))
			}
		}
		fmt.Fprintf(bw, "%s \\\\\n", strings.Join(cells, " & "))

		if i+1 < len(t.Rows) {
			if next := t.Rows[i+1].First(); next > 0 {
				fmt.Fprintf(bw, "\\cline{%d-%d}\n", next+1, ncols)
				continue
			}
		}
		fmt.Fprintf(bw, "\\hline\n")
	}
	fmt.Fprintf(bw, "\\end{tabular}\n")
	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`)

// FormatMarkdown writes t as a Markdown table. Cells hidden under a
// span are left blank.
func FormatMarkdown(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	line := func(cells []string) {
		fmt.Fprintf(bw, "| %s |\n", strings.Join(cells, " | "))
	}

	var hdr, align []string
	for _, h := range t.Headers {
		hdr = append(hdr, markdownEscaper.Replace(h))
		align = append(align, "---")
	}
	for _, c := range t.Columns {
		hdr = append(hdr, markdownEscaper.Replace(c.Header))
		align = append(align, "---:")
	}
	line(hdr)
	line(align)

	for _, r := range t.Rows {
		var cells []string
		for _, c := range r.Cells {
			if c.Hidden() {
				cells = append(cells, "")
			} else {
				cells = append(cells, markdownEscaper.Replace(c.Text))
			}
		}
		for j, v := range r.Values {
			if j < len(t.Columns) {
				cells = append(cells, formatValue(v, t.Columns[j]))
			}
		}
		line(cells)
	}
	return bw.Flush()
}

// FormatText writes t as a fixed-width text table.
func FormatText(w io.Writer, t *Table) error {
	var tab texttab.Table
	tab.Row()
	for _, h := range t.Headers {
		tab.Cell(h)
	}
	for _, c := range t.Columns {
		tab.Cell(c.Header, texttab.Right)
	}
	tab.Rule('-')
	for _, r := range t.Rows {
		tab.Row()
		for _, c := range r.Cells {
			tab.Cell(c.Text)
		}
		for j, v := range r.Values {
			if j < len(t.Columns) {
				tab.Cell(formatValue(v, t.Columns[j]), texttab.Right)
			}
		}
	}
	return tab.Format(w)
}
