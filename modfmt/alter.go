// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modfmt

import (
	"fmt"
	"sort"
)

// An Action is a modification applied to a report by Alter.
type Action int

const (
	// Scale multiplies one metric of the matching modules.
	Scale Action = iota
	// FullScale multiplies every metric of the matching modules.
	FullScale
	// RemoveModules deletes the matching modules.
	RemoveModules
	// RemoveMetric deletes one metric from the whole report.
	RemoveMetric
	// FullRun multiplies one metric of every module and of the total.
	FullRun
)

var actionNames = []string{
	Scale:         "scale",
	FullScale:     "fullscale",
	RemoveModules: "remove_modules",
	RemoveMetric:  "remove_metric",
	FullRun:       "fullrun",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction returns the Action named s.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// An Alteration describes a change to apply to a report.
type Alteration struct {
	Action Action
	Metric Metric
	Factor float64

	// Match selects the modules the action applies to. A nil
	// Match selects every module. It is ignored by RemoveMetric
	// and FullRun, which apply to the whole report.
	Match func(m *Module) bool
}

// A Change summarizes the effect of Alter.
type Change struct {
	// Total is the change applied to each metric of the report
	// total.
	Total map[string]float64

	// Altered lists the modules that were modified or removed,
	// as they were before the change.
	Altered []*Module
}

// Metrics returns the names of the changed total metrics, sorted.
func (c *Change) Metrics() []string {
	names := make([]string, 0, len(c.Total))
	for name := range c.Total {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alter applies a to rep in place and reports what changed. The
// report total is kept consistent with the module changes.
func Alter(rep *Report, a Alteration) (*Change, error) {
	if rep.Total == nil {
		rep.Total = &Module{Type: "Job"}
	}
	c := &Change{Total: make(map[string]float64)}
	match := a.Match
	if match == nil {
		match = func(*Module) bool { return true }
	}
	metric := string(a.Metric)
	adjust := func(name string, delta float64) {
		rep.Total.Set(name, rep.Total.Values[name]+delta)
		c.Total[name] += delta
	}

	switch a.Action {
	default:
		return nil, fmt.Errorf("unknown action %v", a.Action)

	case Scale:
		for _, m := range rep.Modules {
			v, ok := m.Values[metric]
			if !ok || !match(m) {
				continue
			}
			c.Altered = append(c.Altered, m.Clone())
			m.Values[metric] = v * a.Factor
			adjust(metric, v*a.Factor-v)
		}

	case FullScale:
		for _, m := range rep.Modules {
			if !match(m) {
				continue
			}
			c.Altered = append(c.Altered, m.Clone())
			for name, v := range m.Values {
				m.Values[name] = v * a.Factor
				adjust(name, v*a.Factor-v)
			}
		}

	case RemoveModules:
		kept := rep.Modules[:0]
		for _, m := range rep.Modules {
			if !match(m) {
				kept = append(kept, m)
				continue
			}
			c.Altered = append(c.Altered, m)
			for name, v := range m.Values {
				adjust(name, -v)
			}
		}
		for i := len(kept); i < len(rep.Modules); i++ {
			rep.Modules[i] = nil
		}
		rep.Modules = kept

	case RemoveMetric:
		res := rep.Resources[:0]
		for _, r := range rep.Resources {
			if r.Name != metric {
				res = append(res, r)
			}
		}
		rep.Resources = res
		if v, ok := rep.Total.Values[metric]; ok {
			c.Total[metric] = -v
			delete(rep.Total.Values, metric)
		}
		for _, m := range rep.Modules {
			if _, ok := m.Values[metric]; ok {
				c.Altered = append(c.Altered, m.Clone())
				delete(m.Values, metric)
			}
		}

	case FullRun:
		for _, m := range rep.Modules {
			if v, ok := m.Values[metric]; ok {
				c.Altered = append(c.Altered, m.Clone())
				m.Values[metric] = v * a.Factor
			}
		}
		v := rep.Total.Values[metric]
		adjust(metric, v*a.Factor-v)
	}
	return c, nil
}
