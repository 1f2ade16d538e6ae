// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table accumulates rows of cells and formats them with aligned
// columns. The zero Table is empty and ready to use.
//
// Methods that add content return the Table so calls can be chained.
type Table struct {
	rows []row
	cols int
}

type row struct {
	cells []cell
	rule  rune // non-zero for a horizontal rule
}

type cell struct {
	col, span int
	value     string
	right     bool
}

// A CellOption modifies a cell as it is added.
type CellOption func(c *cell)

// Right aligns a cell's contents to the right edge of its columns.
var Right CellOption = func(c *cell) { c.right = true }

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, row{})
	return t
}

// Rule adds a row consisting of a horizontal line drawn with ch
// across the full width of the table.
func (t *Table) Rule(ch rune) *Table {
	t.rows = append(t.rows, row{rule: ch})
	return t
}

func (t *Table) cur() *row {
	if len(t.rows) == 0 || t.rows[len(t.rows)-1].rule != 0 {
		t.Row()
	}
	return &t.rows[len(t.rows)-1]
}

// Cell adds a single-column cell to the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Span adds a cell covering cols columns to the current row.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	r := t.cur()
	col := 0
	if n := len(r.cells); n > 0 {
		col = r.cells[n-1].col + r.cells[n-1].span
	}
	c := cell{col: col, span: cols, value: value}
	for _, o := range opts {
		o(&c)
	}
	r.cells = append(r.cells, c)
	if col+cols > t.cols {
		t.cols = col + cols
	}
	return t
}

// Format writes the table to w. Columns are separated by two spaces
// and trailing blanks are trimmed.
func (t *Table) Format(w io.Writer) error {
	const gap = 2

	width := make([]int, t.cols)
	// Single-column cells size their column. Spanning cells then
	// widen the last column they cover if they do not fit.
	for pass := 0; pass < 2; pass++ {
		for _, r := range t.rows {
			for _, c := range r.cells {
				n := utf8.RuneCountInString(c.value)
				if pass == 0 && c.span == 1 && n > width[c.col] {
					width[c.col] = n
				}
				if pass == 1 && c.span > 1 {
					have := gap * (c.span - 1)
					for i := c.col; i < c.col+c.span; i++ {
						have += width[i]
					}
					if n > have {
						width[c.col+c.span-1] += n - have
					}
				}
			}
		}
	}
	total := 0
	for i, n := range width {
		if i > 0 {
			total += gap
		}
		total += n
	}

	var b strings.Builder
	for _, r := range t.rows {
		if r.rule != 0 {
			b.WriteString(strings.Repeat(string(r.rule), total))
			b.WriteByte('\n')
			continue
		}
		var line strings.Builder
		for _, c := range r.cells {
			off := 0
			for i := 0; i < c.col; i++ {
				off += width[i] + gap
			}
			w := gap * (c.span - 1)
			for i := c.col; i < c.col+c.span; i++ {
				w += width[i]
			}
			pad := off - utf8.RuneCountInString(line.String())
			if pad > 0 {
				line.WriteString(strings.Repeat(" ", pad))
			}
			if c.right {
				fmt.Fprintf(&line, "%*s", w, c.value)
			} else {
				line.WriteString(c.value)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
