// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modproc

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// A Normalization selects the divisor applied to module values
// during aggregation.
type Normalization int

const (
	// PerReportEvent divides every value by the report's total
	// event count.
	PerReportEvent Normalization = iota
	// PerModuleEvent divides every value by the module's own
	// event count, falling back to the report's.
	PerModuleEvent
	// Raw applies no division.
	Raw
)

var normNames = []string{
	PerReportEvent: "report",
	PerModuleEvent: "module",
	Raw:            "none",
}

func (n Normalization) String() string {
	if int(n) < len(normNames) {
		return normNames[n]
	}
	return fmt.Sprintf("Normalization(%d)", int(n))
}

// ParseNormalization returns the Normalization named s: "report",
// "module", or "none".
func ParseNormalization(s string) (Normalization, error) {
	for i, name := range normNames {
		if name == s {
			return Normalization(i), nil
		}
	}
	return 0, fmt.Errorf("unknown normalization %q (want report, module, or none)", s)
}

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// Metric is the name of the metric to sum.
	Metric string

	// Depth is the number of leading expanded path segments
	// that form a group key. Depth <= 0 keeps the whole path.
	Depth int

	// Filter, if non-nil, keeps only modules whose expanded path
	// contains a match.
	Filter *regexp.Regexp

	// Norm selects the per-event divisor.
	Norm Normalization

	// Events is the report's total event count. Values <= 0 are
	// treated as 1.
	Events int64
}

// A Group is the aggregated value of the modules sharing a key.
type Group struct {
	Key   string
	Value float64
}

// Groups is the result of Aggregate.
type Groups []Group

// Map returns g as a map from key to value.
func (g Groups) Map() map[string]float64 {
	m := make(map[string]float64, len(g))
	for _, gr := range g {
		m[gr.Key] = gr.Value
	}
	return m
}

// Sum returns the sum of all group values.
func (g Groups) Sum() float64 {
	var sum float64
	for _, gr := range g {
		sum += gr.Value
	}
	return sum
}

// Truncate returns the first depth segments of an expanded path. A
// path with fewer segments is returned whole.
func Truncate(expanded string, depth int) string {
	if depth <= 0 {
		return expanded
	}
	parts := strings.SplitN(expanded, Sep, depth+1)
	if len(parts) <= depth {
		return expanded
	}
	return strings.Join(parts[:depth], Sep)
}

// Aggregate sums opts.Metric over mods by group key. Groups are
// returned in order of first appearance. Modules that do not carry
// the metric contribute nothing.
func Aggregate(mods []Classified, opts AggregateOptions) Groups {
	reportEvents := float64(opts.Events)
	if reportEvents <= 0 {
		reportEvents = 1
	}

	var out Groups
	index := make(map[string]int)
	for _, m := range mods {
		if opts.Filter != nil && !opts.Filter.MatchString(m.Expanded) {
			continue
		}
		v, ok := m.Values[opts.Metric]
		if !ok {
			continue
		}
		switch opts.Norm {
		case PerReportEvent:
			v /= reportEvents
		case PerModuleEvent:
			if m.HasEvents && m.Events > 0 {
				v /= float64(m.Events)
			} else {
				v /= reportEvents
			}
		}

		key := Truncate(m.Expanded, opts.Depth)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Group{Key: key})
		}
		out[i].Value += v
	}
	return out
}

// SortGroups sorts g by value, descending or ascending. Groups with
// equal values keep their relative order.
func SortGroups(g Groups, descending bool) {
	sort.SliceStable(g, func(i, j int) bool {
		if descending {
			return g[i].Value > g[j].Value
		}
		return g[i].Value < g[j].Value
	})
}

// Percent returns the share of total represented by an aggregated
// per-event value v, as a percentage: v*events/total*100.
func Percent(v float64, events int64, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v * float64(events) / total * 100
}

// CompileFilter compiles a filter expression for Aggregate. If expr
// is not a valid regexp, CompileFilter calls warn and returns a
// filter that matches everything.
func CompileFilter(expr string, warn func(format string, args ...interface{})) *regexp.Regexp {
	re, err := regexp.Compile(expr)
	if err != nil {
		if warn != nil {
			warn("failed to compile the supplied regular expression %q: %v\n", expr, err)
		}
		re = regexp.MustCompile(".*")
	}
	return re
}
