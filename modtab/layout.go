// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modtab renders a modtree hierarchy as a table in which a
// repeated path prefix is printed once, as a cell spanning the rows
// of all the leaves below it.
//
// Layout computes the cells and spans. The Format functions write
// the resulting Table as LaTeX, Markdown, HTML, or plain text.
package modtab

import (
	"fmt"
	"strings"

	"circles/modtree"
)

// A Column describes one value column of a table.
type Column struct {
	Header string
	// Percent marks a column holding a percentage.
	Percent bool
}

// Options controls Layout.
type Options struct {
	// Headers name the label columns, outermost first. Missing
	// headers are left blank.
	Headers []string

	// Columns describe the leaf values.
	Columns []Column

	// If Cutoff > 0, leaves whose value in column CutoffCol is
	// below Cutoff are dropped before spans are computed.
	Cutoff    float64
	CutoffCol int

	// Order sorts the children of every node by their total in
	// column SortCol. Sorting keeps spans contiguous.
	Order   Order
	SortCol int
}

// Order is an ordering of sibling entries.
type Order int

const (
	Insertion Order = iota
	Ascending
	Descending
)

// ParseOrder parses "a" (or "asc") and "d" (or "desc"). The empty
// string means Insertion.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "":
		return Insertion, nil
	case "a", "asc":
		return Ascending, nil
	case "d", "desc":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort order %q", s)
}

// A Table is a laid out hierarchy.
type Table struct {
	Headers []string // one per label column
	Columns []Column
	Rows    []Row
}

// A Row holds one leaf.
type Row struct {
	// Cells has one entry per label column.
	Cells  []Cell
	Values []float64
}

// A Cell is one label cell.
type Cell struct {
	Text string

	// Span is the number of rows the cell covers. A cell hidden
	// under a span from an earlier row has Span 0.
	Span int

	// Total is the sum of the values below the cell.
	Total []float64
}

// Hidden reports whether c is covered by a cell of an earlier row.
func (c Cell) Hidden() bool { return c.Span == 0 }

// First returns the index of the first visible label cell of r,
// which is where r starts a new group.
func (r Row) First() int {
	for i, c := range r.Cells {
		if !c.Hidden() {
			return i
		}
	}
	return len(r.Cells)
}

type printedKey struct {
	prefix string
	depth  int
}

// Layout prunes and orders root according to opts and lays it out
// as a Table. It modifies root.
func Layout(root *modtree.Node, opts Options) *Table {
	if opts.Cutoff > 0 {
		col, cutoff := opts.CutoffCol, opts.Cutoff
		root.Prune(func(_ []string, l *modtree.Leaf) bool {
			return col >= len(l.Values) || l.Values[col] >= cutoff
		})
	}
	if opts.Order != Insertion {
		root.SortBy(opts.SortCol, opts.Order == Descending)
	}

	depth := root.Depth()
	t := &Table{Headers: make([]string, depth), Columns: opts.Columns}
	copy(t.Headers, opts.Headers)

	printed := make(map[printedKey]bool)
	root.Walk(func(chain []modtree.Entry) {
		r := Row{Cells: make([]Cell, depth)}
		var prefix []string
		for d, e := range chain {
			prefix = append(prefix, e.Name())
			k := printedKey{strings.Join(prefix, modtree.Sep), d}
			if printed[k] {
				continue
			}
			printed[k] = true
			span := 1
			if n, ok := e.(*modtree.Node); ok {
				span = n.Count
			}
			r.Cells[d] = Cell{Text: e.Name(), Span: span, Total: e.Total()}
		}
		leaf := chain[len(chain)-1].(*modtree.Leaf)
		// Columns past a short path are blank filler.
		for d := len(chain); d < depth; d++ {
			r.Cells[d] = Cell{Span: 1}
		}
		r.Values = leaf.Values
		t.Rows = append(t.Rows, r)
	})
	return t
}

func formatValue(v float64, c Column) string {
	if c.Percent {
		return fmt.Sprintf("%.2f%%", v)
	}
	return fmt.Sprintf("%.2f", v)
}
