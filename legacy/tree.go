// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package legacy

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"circles/modfmt"
	"circles/modproc"
	"circles/modtree"
)

// A Tree is a node of the nested package tree read by the circles
// viewer. Leaves are module instances and have nil Groups. The
// parents of leaves are module types.
type Tree struct {
	Label  string  `json:"label"`
	Color  string  `json:"color,omitempty"`
	Weight float64 `json:"weight"`
	Groups []*Tree `json:"groups,omitempty"`
}

// IsLeaf reports whether t has no "groups" list at all. A node with an
// empty list is not a leaf.
func (t *Tree) IsLeaf() bool { return t.Groups == nil }

// ErrMixedNode is matched by every *MixedNodeError.
var ErrMixedNode = errors.New("children are a mixture of terminals and non-terminals")

// A MixedNodeError reports a tree node whose children are partly
// leaves and partly nodes, so it is neither a type nor a package.
type MixedNodeError struct {
	Label string
}

func (e *MixedNodeError) Error() string {
	return fmt.Sprintf("descendants of node %s are a mixture of terminals and non-terminals", e.Label)
}

func (e *MixedNodeError) Is(target error) bool { return target == ErrMixedNode }

// ReadTree decodes a Tree from r.
func ReadTree(r io.Reader, fileName string) (*Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if t.IsLeaf() {
		return nil, &modfmt.SyntaxError{FileName: fileName, Msg: "tree has no groups"}
	}
	return &t, nil
}

// isType reports whether all of t's children are leaves.
func isType(t *Tree) (bool, error) {
	leaves := 0
	for _, c := range t.Groups {
		if c.IsLeaf() {
			leaves++
		}
	}
	if leaves > 0 && leaves < len(t.Groups) {
		return false, &MixedNodeError{t.Label}
	}
	return leaves > 0, nil
}

// FromTree converts a package tree into a report. Each node whose
// children are all leaves is a module type and contributes one module
// per child, in document order. The tree stores the average real time
// per event, so the report has one event and a single resource.
func FromTree(t *Tree) (*modfmt.Report, error) {
	rep := &modfmt.Report{
		Resources: modfmt.Resources{{Name: string(modfmt.TimeReal), Description: "real time"}},
		Total: &modfmt.Module{
			Type: "Job", Label: t.Label, Events: 1, HasEvents: true,
			Values: map[string]float64{string(modfmt.TimeReal): t.Weight},
		},
		Modules: []*modfmt.Module{},
	}

	stack := []*Tree{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		typ, err := isType(n)
		if err != nil {
			return nil, err
		}
		if typ {
			for _, c := range n.Groups {
				rep.Modules = append(rep.Modules, &modfmt.Module{
					Type:   n.Label,
					Label:  c.Label,
					Values: map[string]float64{string(modfmt.TimeReal): c.Weight},
				})
			}
			continue
		}
		// Push in reverse to pop in document order.
		for i := len(n.Groups) - 1; i >= 0; i-- {
			stack = append(stack, n.Groups[i])
		}
	}
	return rep, nil
}

// TreeOptions controls BuildTree.
type TreeOptions struct {
	Title  string
	Metric string

	// Files is the number of reports the modules were summed over.
	// Weights are divided by it.
	Files int

	// Entries whose weight is at most Threshold are omitted.
	Threshold float64

	// Color returns the colour for a node label, or "".
	Color func(label string) string
}

// BuildTree arranges classified modules into a package tree for the
// circles viewer. The levels below the root are the package path
// segments, then the module type, then the module label. Every node
// weighs the sum of the leaves below it, including those omitted by
// the threshold.
func BuildTree(mods []modproc.Classified, opts TreeOptions) *Tree {
	n := float64(opts.Files)
	if n <= 0 {
		n = 1
	}
	root := modtree.New(opts.Title)
	for _, m := range mods {
		v, ok := m.Value(opts.Metric)
		if !ok {
			continue
		}
		root.Insert(strings.Split(m.Expanded, modproc.Sep), []float64{v / n})
	}

	var convert func(e modtree.Entry) *Tree
	convert = func(e modtree.Entry) *Tree {
		t := &Tree{Label: e.Name()}
		if tot := e.Total(); len(tot) > 0 {
			t.Weight = tot[0]
		}
		if opts.Color != nil {
			t.Color = opts.Color(t.Label)
		}
		if n, ok := e.(*modtree.Node); ok {
			t.Groups = []*Tree{}
			for _, c := range n.Children {
				ct := convert(c)
				if ct.Weight <= opts.Threshold {
					continue
				}
				t.Groups = append(t.Groups, ct)
			}
		}
		return t
	}
	return convert(root)
}

// WriteTree writes t in the layout the circles viewer was originally
// fed: one node per line, indented by depth, weights with six
// significant digits.
func WriteTree(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	var write func(t *Tree, level int)
	write = func(t *Tree, level int) {
		ind := strings.Repeat("  ", level)
		label, _ := json.Marshal(t.Label)
		fmt.Fprintf(bw, "%s{ \"label\": %s, ", ind, label)
		if t.Color != "" {
			color, _ := json.Marshal(t.Color)
			fmt.Fprintf(bw, "\"color\": %s, ", color)
		}
		weight := strconv.FormatFloat(t.Weight, 'g', 6, 64)
		if t.IsLeaf() {
			fmt.Fprintf(bw, "\"weight\": %s }", weight)
			return
		}
		fmt.Fprintf(bw, "\"weight\": %s, \"groups\": [\n", weight)
		for i, c := range t.Groups {
			if i > 0 {
				fmt.Fprintf(bw, ",\n")
			}
			write(c, level+1)
		}
		fmt.Fprintf(bw, "\n%s]}", ind)
	}
	write(t, 0)
	fmt.Fprintf(bw, "\n")
	return bw.Flush()
}
