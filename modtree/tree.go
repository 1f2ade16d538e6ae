// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modtree arranges aggregated values into a hierarchy keyed
// by "|"-separated paths.
//
// Every internal Node tracks the number of leaves below it and the
// component-wise sum of their values, which is what a renderer needs
// to draw merged cells spanning a node's descendants.
package modtree

import (
	"sort"
	"strings"
)

// Sep separates path segments.
const Sep = "|"

// SelfLabel labels the leaf that holds a node's own value when a
// path is both a leaf and the prefix of another path.
const SelfLabel = "(self)"

// An Entry is either a *Leaf or a *Node.
type Entry interface {
	// Name returns the entry's path segment.
	Name() string
	// Total returns the entry's values; for a Node, the sum over
	// all its descendant leaves.
	Total() []float64

	isEntry()
}

// A Leaf is a terminal entry carrying values.
type Leaf struct {
	Label  string
	Values []float64
}

func (l *Leaf) Name() string     { return l.Label }
func (l *Leaf) Total() []float64 { return l.Values }
func (*Leaf) isEntry()           {}

// A Node is an internal entry.
type Node struct {
	Label    string
	Children []Entry

	// Count is the number of leaves below the node.
	Count int

	// Sum is the component-wise sum of the values of every leaf
	// inserted below the node. Pruning leaves does not change it.
	Sum []float64

	index map[string]int
}

func (n *Node) Name() string     { return n.Label }
func (n *Node) Total() []float64 { return n.Sum }
func (*Node) isEntry()           {}

// New returns an empty root node.
func New(label string) *Node {
	return &Node{Label: label}
}

// Build returns a tree holding one leaf per key, in key order.
// keys and values must have the same length.
func Build(label string, keys []string, values [][]float64) *Node {
	root := New(label)
	for i, k := range keys {
		root.Insert(strings.Split(k, Sep), values[i])
	}
	return root
}

func (n *Node) child(label string) (Entry, int) {
	if i, ok := n.index[label]; ok {
		return n.Children[i], i
	}
	return nil, -1
}

func (n *Node) add(e Entry) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[e.Name()] = len(n.Children)
	n.Children = append(n.Children, e)
}

func addValues(dst *[]float64, values []float64) {
	for len(*dst) < len(values) {
		*dst = append(*dst, 0)
	}
	for i, v := range values {
		(*dst)[i] += v
	}
}

// Insert adds values at path below n. Inserting at an existing leaf
// adds to its values. If path runs through an existing leaf, that
// leaf becomes a node and its values move to a SelfLabel child.
// If path names an existing node, the values go to the node's
// SelfLabel child.
func (n *Node) Insert(path []string, values []float64) {
	path = path[:len(path):len(path)]
	leaves := 0
	var chain []*Node
	node := n
	for i := 0; i < len(path); i++ {
		chain = append(chain, node)
		seg := path[i]
		last := i == len(path)-1
		e, idx := node.child(seg)

		switch e := e.(type) {
		case nil:
			if last {
				node.add(&Leaf{Label: seg, Values: append([]float64(nil), values...)})
				leaves = 1
				continue
			}
			next := &Node{Label: seg}
			node.add(next)
			node = next

		case *Leaf:
			if last {
				addValues(&e.Values, values)
				continue
			}
			// The demoted leaf is already counted by the
			// ancestors.
			next := &Node{Label: seg, Count: 1, Sum: append([]float64(nil), e.Values...)}
			next.add(&Leaf{Label: SelfLabel, Values: e.Values})
			node.Children[idx] = next
			node = next

		case *Node:
			if last {
				path = append(path, SelfLabel)
			}
			node = e
		}
	}
	for _, c := range chain {
		addValues(&c.Sum, values)
		c.Count += leaves
	}
}

// Prune removes every leaf for which keep returns false and
// decrements the leaf count of each of its ancestors. Nodes left
// without leaves are removed. It returns the number of leaves
// removed.
func (n *Node) Prune(keep func(path []string, l *Leaf) bool) int {
	return n.prune(nil, keep)
}

func (n *Node) prune(path []string, keep func([]string, *Leaf) bool) int {
	removed := 0
	kept := n.Children[:0]
	for _, c := range n.Children {
		p := append(path[:len(path):len(path)], c.Name())
		switch c := c.(type) {
		case *Leaf:
			if !keep(p, c) {
				removed++
				continue
			}
		case *Node:
			removed += c.prune(p, keep)
			if c.Count == 0 {
				continue
			}
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
	n.reindex()
	n.Count -= removed
	return removed
}

func (n *Node) reindex() {
	n.index = make(map[string]int, len(n.Children))
	for i, c := range n.Children {
		n.index[c.Name()] = i
	}
}

// SortBy recursively orders the children of n by the component col
// of their totals. Entries with equal totals keep their order.
func (n *Node) SortBy(col int, descending bool) {
	val := func(e Entry) float64 {
		t := e.Total()
		if col < len(t) {
			return t[col]
		}
		return 0
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		sort.SliceStable(n.Children, func(i, j int) bool {
			if descending {
				return val(n.Children[i]) > val(n.Children[j])
			}
			return val(n.Children[i]) < val(n.Children[j])
		})
		n.reindex()
		for _, c := range n.Children {
			if c, ok := c.(*Node); ok {
				walk(c)
			}
		}
	}
	walk(n)
}

// Lookup returns the entry at path below n, or nil.
func (n *Node) Lookup(path []string) Entry {
	var e Entry = n
	for _, seg := range path {
		node, ok := e.(*Node)
		if !ok {
			return nil
		}
		e, _ = node.child(seg)
		if e == nil {
			return nil
		}
	}
	return e
}

// Walk calls fn for every leaf below n in order, passing the chain of
// entries from the first child level down to the leaf.
func (n *Node) Walk(fn func(chain []Entry)) {
	var walk func(n *Node, chain []Entry)
	walk = func(n *Node, chain []Entry) {
		for _, c := range n.Children {
			ch := append(chain[:len(chain):len(chain)], c)
			switch c := c.(type) {
			case *Leaf:
				fn(ch)
			case *Node:
				walk(c, ch)
			}
		}
	}
	walk(n, nil)
}

// Depth returns the length of the longest chain below n.
func (n *Node) Depth() int {
	max := 0
	n.Walk(func(chain []Entry) {
		if len(chain) > max {
			max = len(chain)
		}
	})
	return max
}
