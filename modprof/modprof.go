// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modprof exports classified modules as a pprof profile, so
// that the package hierarchy can be browsed with pprof's flame graph
// and tree views.
//
// Each module becomes one sample whose call stack is its expanded
// path, outermost package first. Time metrics are recorded in
// microseconds and memory metrics in bytes.
package modprof

import (
	"fmt"
	"io"
	"math"

	"circles/modfmt"
	"circles/modproc"

	"github.com/google/pprof/profile"
)

// Options controls Build.
type Options struct {
	// Metrics are the sample values, in order. The first is the
	// default sample type.
	Metrics []modfmt.Metric

	// If Events > 0, values are divided by it.
	Events int64
}

func sampleType(m modfmt.Metric) (*profile.ValueType, float64) {
	if m.IsMemory() {
		return &profile.ValueType{Type: string(m), Unit: "bytes"}, 1000
	}
	return &profile.ValueType{Type: string(m), Unit: "microseconds"}, 1000
}

// Build returns a profile of mods. Modules lacking all of the metrics
// are skipped.
func Build(mods []modproc.Classified, opts Options) (*profile.Profile, error) {
	if len(opts.Metrics) == 0 {
		return nil, fmt.Errorf("no metrics to profile")
	}
	p := &profile.Profile{}
	factors := make([]float64, len(opts.Metrics))
	for i, m := range opts.Metrics {
		vt, f := sampleType(m)
		p.SampleType = append(p.SampleType, vt)
		factors[i] = f
	}
	p.DefaultSampleType = string(opts.Metrics[0])
	if opts.Events > 0 {
		for i := range factors {
			factors[i] /= float64(opts.Events)
		}
	}

	// One function and one location per path segment name.
	locs := make(map[string]*profile.Location)
	location := func(name string) *profile.Location {
		if l, ok := locs[name]; ok {
			return l
		}
		fn := &profile.Function{ID: uint64(len(p.Function) + 1), Name: name, SystemName: name}
		p.Function = append(p.Function, fn)
		l := &profile.Location{ID: uint64(len(p.Location) + 1), Line: []profile.Line{{Function: fn}}}
		p.Location = append(p.Location, l)
		locs[name] = l
		return l
	}

	for _, c := range mods {
		vals := make([]int64, len(opts.Metrics))
		found := false
		for i, m := range opts.Metrics {
			if v, ok := c.Value(string(m)); ok {
				vals[i] = int64(math.Round(v * factors[i]))
				found = true
			}
		}
		if !found {
			continue
		}
		path := c.Path()
		stack := make([]*profile.Location, len(path))
		for i, seg := range path {
			// Samples list the leaf first.
			stack[len(path)-1-i] = location(seg)
		}
		p.Sample = append(p.Sample, &profile.Sample{
			Location: stack,
			Value:    vals,
			Label: map[string][]string{
				"type":    {c.Type},
				"label":   {c.Label},
				"package": {c.Package},
			},
		})
	}
	if err := p.CheckValid(); err != nil {
		return nil, err
	}
	return p, nil
}

// Write writes p to w in the gzipped protocol buffer format.
func Write(w io.Writer, p *profile.Profile) error {
	return p.Write(w)
}
