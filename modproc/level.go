// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modproc

import (
	"fmt"
	"sort"
	"strings"

	"circles/modfmt"
)

// A Level picks the category a classified module is counted under
// when comparing reports.
type Level string

const (
	LevelPackage  Level = "package"  // top-level package
	LevelType     Level = "type"     // module type
	LevelLabel    Level = "label"    // module label
	LevelExpanded Level = "expanded" // full expanded path
)

// ParseLevel returns the Level named s.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelPackage, LevelType, LevelLabel, LevelExpanded:
		return l, nil
	}
	return "", fmt.Errorf("level must be one of: package, type, label, expanded")
}

// Key returns the category of m at level l.
func (l Level) Key(m Classified) string {
	switch l {
	case LevelType:
		return m.Type
	case LevelLabel:
		return m.Label
	case LevelExpanded:
		return m.Expanded
	}
	return m.TopPackage()
}

// Categorize sums metric over mods by their category at level l,
// dividing by events when events > 0.
func Categorize(mods []Classified, l Level, metric string, events float64) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range mods {
		v, ok := m.Values[metric]
		if !ok {
			continue
		}
		if events > 0 {
			v /= events
		}
		out[l.Key(m)] += v
	}
	return out
}

// Categories returns the sorted union of the keys of aggs.
func Categories(aggs []map[string]float64) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, a := range aggs {
		for k := range a {
			if !seen[k] {
				seen[k] = true
				cats = append(cats, k)
			}
		}
	}
	sort.Strings(cats)
	return cats
}

// DominantPackage returns the top-level package that contributes the
// most to category cat at level l, summed over all module sets. If
// events[i] > 0, the values of sets[i] are divided by it first, as in
// Categorize; events may be nil. It returns Unassigned if nothing
// contributes.
func DominantPackage(cat string, l Level, sets [][]Classified, events []float64, metric string) string {
	if l == LevelPackage {
		return cat
	}
	contrib := make(map[string]float64)
	var order []string
	for i, mods := range sets {
		div := 1.0
		if i < len(events) && events[i] > 0 {
			div = events[i]
		}
		for _, m := range mods {
			if l.Key(m) != cat {
				continue
			}
			v, ok := m.Values[metric]
			if !ok {
				continue
			}
			pkg := m.TopPackage()
			if _, ok := contrib[pkg]; !ok {
				order = append(order, pkg)
			}
			contrib[pkg] += v / div
		}
	}
	best := Unassigned
	for i, pkg := range order {
		if i == 0 || contrib[pkg] > contrib[best] {
			best = pkg
		}
	}
	return best
}

// BranchRules derives grouping rules from the branch names embedded
// in module types. A type "a_b_c" yields the rule "*b*|" for package
// "b"; a type without an underscore yields "<type>*|" for package
// "other". Rules appear in order of first occurrence.
func BranchRules(mods []*modfmt.Module) []Rule {
	var rules []Rule
	seen := make(map[string]bool)
	for _, m := range mods {
		parts := strings.Split(m.Type, "_")
		var r Rule
		if len(parts) < 2 {
			r = Rule{parts[0] + "*|", "other"}
		} else {
			r = Rule{"*" + parts[1] + "*|", parts[1]}
		}
		if !seen[r.Pattern] {
			seen[r.Pattern] = true
			rules = append(rules, r)
		}
	}
	return rules
}
