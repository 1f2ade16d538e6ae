// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dotcolor recolours the module nodes of a Graphviz
// dependency graph by package.
package dotcolor

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"regexp"
	"strconv"
	"strings"

	"circles/palette"
)

// A Matcher assigns a package to a module type and label.
type Matcher interface {
	Match(typ, label string) (pkg string, ok bool)
}

var (
	nodeLine = regexp.MustCompile(`^([0-9]+)\[((?:(?:color|fillcolor|label|shape|style|tooltip)=["']?[a-zA-Z0-9_]+["']?(?: *, *)?)+)\];$`)
	attr     = regexp.MustCompile(`(color|fillcolor|label|shape|style|tooltip)=["']?([a-zA-Z0-9_]+)["']?`)
)

// Node is a module node of the graph. Tooltip holds the module type.
type Node struct {
	ID                      int
	Color, FillColor, Label string
	Shape, Style, Tooltip   string
}

// ParseNode parses a node line such as
//
//	0[color=black, fillcolor=white, label=source, shape=oval, style=filled, tooltip=PoolSource];
func ParseNode(line string) (Node, bool) {
	m := nodeLine.FindStringSubmatch(line)
	if m == nil {
		return Node{}, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return Node{}, false
	}
	n := Node{ID: id}
	for _, a := range attr.FindAllStringSubmatch(m[2], -1) {
		switch a[1] {
		case "color":
			n.Color = a[2]
		case "fillcolor":
			n.FillColor = a[2]
		case "label":
			n.Label = a[2]
		case "shape":
			n.Shape = a[2]
		case "style":
			n.Style = a[2]
		case "tooltip":
			n.Tooltip = a[2]
		}
	}
	return n, true
}

// Recolor copies the graph from r to w, filling each module node with
// the colour of its package. Nodes originally filled with a colour
// other than white get a darker shade. Labels on dark fills are drawn
// in white. Other lines are copied with surrounding space removed.
func Recolor(w io.Writer, r io.Reader, m Matcher, p palette.Palette) error {
	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		n, ok := ParseNode(line)
		if !ok {
			fmt.Fprintln(bw, line)
			continue
		}
		fg, bg := "black", n.FillColor
		if pkg, ok := m.Match(n.Tooltip, n.Label); ok {
			if c, ok := p.Lookup(pkg); ok {
				fill := c
				if n.FillColor != "white" {
					fill = palette.Darken(c)
				}
				bg = palette.Hex(fill)
				fg = foreground(fill)
			}
		}
		fmt.Fprintf(bw, "%d[color=%q, fillcolor=%q, fontcolor=%q, label=%q, shape=%q, style=%q, tooltip=%q];\n",
			n.ID, n.Color, bg, fg, n.Label, n.Shape, n.Style, n.Tooltip)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

func foreground(c color.RGBA) string {
	if palette.IsDark(c) {
		return "white"
	}
	return "black"
}
