// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modfmt reads and writes module-level resource reports.
//
// A report lists the metrics it carries ("resources"), a grand total
// for the job, and one record per measured module:
//
//	{
//	  "resources": [ { "time_real": "real time" }, ... ],
//	  "total":   { "type": "Job", "label": "HLT", "events": 1000, "time_real": 4213.5 },
//	  "modules": [ { "type": "PoolSource", "label": "source", "events": 1000, "time_real": 12.5 }, ... ]
//	}
//
// Modules are unique by (type, label) within a report.
package modfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// A Resource describes one metric carried by a report.
type Resource struct {
	Name        string
	Description string
}

// Resources is the ordered list of metrics carried by a report.
//
// In JSON it is a list of objects, each mapping metric names to
// human-readable descriptions. An object may name more than one
// metric; the flattened order is preserved.
type Resources []Resource

// Names returns the metric names in r, in order.
func (r Resources) Names() []string {
	names := make([]string, len(r))
	for i, res := range r {
		names[i] = res.Name
	}
	return names
}

// Has reports whether r carries the named metric.
func (r Resources) Has(name string) bool {
	for _, res := range r {
		if res.Name == name {
			return true
		}
	}
	return false
}

// Equal reports whether r and o describe the same metrics in the
// same order.
func (r Resources) Equal(o Resources) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

func (r Resources) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, res := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(res.Name)
		if err != nil {
			return nil, err
		}
		desc, err := json.Marshal(res.Description)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(desc)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (r *Resources) UnmarshalJSON(data []byte) error {
	var objs []json.RawMessage
	if err := json.Unmarshal(data, &objs); err != nil {
		return err
	}
	out := Resources{}
	for _, obj := range objs {
		dec := json.NewDecoder(bytes.NewReader(obj))
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := tok.(string)
			var desc string
			if err := dec.Decode(&desc); err != nil {
				return fmt.Errorf("resources: description of %q: %w", name, err)
			}
			out = append(out, Resource{name, desc})
		}
	}
	*r = out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}

// A Module is the measurement of one unit of work. The same
// representation is used for a report's grand total.
type Module struct {
	Type  string
	Label string

	// Events is the number of events the values were accumulated
	// over. HasEvents is false if the record carried no count.
	Events    int64
	HasEvents bool

	// Values maps metric names to measured values.
	Values map[string]float64
}

// Key returns the merge key of m, "type|label".
func (m *Module) Key() string {
	return m.Type + "|" + m.Label
}

// Value returns the value of metric name and whether m carries it.
func (m *Module) Value(name string) (float64, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// Set sets the value of metric name.
func (m *Module) Set(name string, v float64) {
	if m.Values == nil {
		m.Values = make(map[string]float64)
	}
	m.Values[name] = v
}

// Clone returns a deep copy of m.
func (m *Module) Clone() *Module {
	m2 := *m
	m2.Values = make(map[string]float64, len(m.Values))
	for k, v := range m.Values {
		m2.Values[k] = v
	}
	return &m2
}

func (m *Module) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	field := func(key string, val interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("module %s: %s: %w", m.Key(), key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	buf.WriteByte('{')
	if err := field("type", m.Type); err != nil {
		return nil, err
	}
	if err := field("label", m.Label); err != nil {
		return nil, err
	}
	if m.HasEvents {
		if err := field("events", m.Events); err != nil {
			return nil, err
		}
	}
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := field(name, m.Values[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Module) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*m = Module{Values: make(map[string]float64)}
	for key, raw := range fields {
		switch key {
		case "type":
			if err := json.Unmarshal(raw, &m.Type); err != nil {
				return fmt.Errorf("type: %w", err)
			}
		case "label":
			if err := json.Unmarshal(raw, &m.Label); err != nil {
				return fmt.Errorf("label: %w", err)
			}
		case "events":
			var n json.Number
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("events: %w", err)
			}
			ev, err := n.Int64()
			if err != nil {
				f, ferr := n.Float64()
				if ferr != nil {
					return fmt.Errorf("events: %w", err)
				}
				ev = int64(f)
			}
			m.Events, m.HasEvents = ev, true
		default:
			// Only numeric fields are metrics. Anything
			// else (such as the "expanded" annotation
			// written by older tools) is dropped.
			var v float64
			if err := json.Unmarshal(raw, &v); err == nil {
				m.Values[key] = v
			}
		}
	}
	return nil
}

// A Report is a complete resource report.
type Report struct {
	Resources Resources `json:"resources"`
	Total     *Module   `json:"total"`
	Modules   []*Module `json:"modules"`
}

// Events returns the number of events recorded in the report total,
// or 0 if there is no total.
func (r *Report) Events() int64 {
	if r.Total == nil {
		return 0
	}
	return r.Total.Events
}

// TotalValue returns the grand total of metric name.
func (r *Report) TotalValue(name string) float64 {
	if r.Total == nil {
		return 0
	}
	return r.Total.Values[name]
}

// Find returns the module with the given type and label, or nil.
func (r *Report) Find(typ, label string) *Module {
	for _, m := range r.Modules {
		if m.Type == typ && m.Label == label {
			return m
		}
	}
	return nil
}

// Sum returns the sum of metric name over all modules.
func (r *Report) Sum(name string) float64 {
	var sum float64
	for _, m := range r.Modules {
		sum += m.Values[name]
	}
	return sum
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	r2 := &Report{Resources: append(Resources(nil), r.Resources...)}
	if r.Total != nil {
		r2.Total = r.Total.Clone()
	}
	r2.Modules = make([]*Module, len(r.Modules))
	for i, m := range r.Modules {
		r2.Modules[i] = m.Clone()
	}
	return r2
}
