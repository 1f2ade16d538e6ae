// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modprof

import (
	"bytes"
	"testing"

	"circles/modfmt"
	"circles/modproc"

	"github.com/google/go-cmp/cmp"
	"github.com/google/pprof/profile"
)

func TestBuild(t *testing.T) {
	c, err := modproc.Compile([]modproc.Rule{{Pattern: "hlt*", Package: "Reco|Tracking"}})
	if err != nil {
		t.Fatal(err)
	}
	mods := c.Classify([]*modfmt.Module{
		{Type: "TrackProducer", Label: "hltTracks", Values: map[string]float64{"time_real": 4, "mem_alloc": 2}},
		{Type: "PoolSource", Label: "source", Values: map[string]float64{"time_real": 1.5}},
		{Type: "Empty", Label: "hltEmpty", Values: map[string]float64{"time_thread": 1}},
	})
	p, err := Build(mods, Options{Metrics: []modfmt.Metric{modfmt.TimeReal, modfmt.MemAlloc}, Events: 2})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatal(err)
	}
	p, err = profile.Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Sample) != 2 {
		t.Fatalf("got %d samples, want 2", len(p.Sample))
	}
	type sample struct {
		Stack  []string
		Values []int64
	}
	var got []sample
	for _, s := range p.Sample {
		var stack []string
		for _, l := range s.Location {
			stack = append(stack, l.Line[0].Function.Name)
		}
		got = append(got, sample{stack, s.Value})
	}
	want := []sample{
		{[]string{"hltTracks", "TrackProducer", "Tracking", "Reco"}, []int64{2000, 1000}},
		{[]string{"source", "PoolSource", "Unassigned"}, []int64{750, 0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if p.SampleType[0].Unit != "microseconds" || p.SampleType[1].Unit != "bytes" {
		t.Errorf("sample types = %v, %v", p.SampleType[0], p.SampleType[1])
	}
	if got := p.Sample[0].Label["package"]; len(got) != 1 || got[0] != "Reco|Tracking" {
		t.Errorf("package label = %q", got)
	}
}

func TestBuildNoMetrics(t *testing.T) {
	if _, err := Build(nil, Options{}); err == nil {
		t.Errorf("Build with no metrics succeeded")
	}
}
