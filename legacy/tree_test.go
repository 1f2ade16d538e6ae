// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package legacy

import (
	"errors"
	"strings"
	"testing"

	"circles/modfmt"
	"circles/modproc"

	"github.com/google/go-cmp/cmp"
)

const testTree = `{ "label": "HLT", "weight": 10, "groups": [
  { "label": "Reco", "color": "#ff0000", "weight": 7, "groups": [
    { "label": "Tracking", "weight": 5, "groups": [
      { "label": "TrackProducer", "weight": 5, "groups": [
        { "label": "hltTracks", "weight": 4 },
        { "label": "hltTracksL3", "weight": 1 }
      ]}
    ]},
    { "label": "CaloProducer", "weight": 2, "groups": [
      { "label": "hltTowers", "weight": 2 }
    ]}
  ]},
  { "label": "PoolSource", "weight": 3, "groups": [
    { "label": "source", "weight": 3 }
  ]}
]}
`

func TestFromTree(t *testing.T) {
	tree, err := ReadTree(strings.NewReader(testTree), "tree.json")
	if err != nil {
		t.Fatal(err)
	}
	rep, err := FromTree(tree)
	if err != nil {
		t.Fatal(err)
	}
	rt := func(v float64) map[string]float64 { return map[string]float64{"time_real": v} }
	want := &modfmt.Report{
		Resources: modfmt.Resources{{Name: "time_real", Description: "real time"}},
		Total:     &modfmt.Module{Type: "Job", Label: "HLT", Events: 1, HasEvents: true, Values: rt(10)},
		Modules: []*modfmt.Module{
			{Type: "TrackProducer", Label: "hltTracks", Values: rt(4)},
			{Type: "TrackProducer", Label: "hltTracksL3", Values: rt(1)},
			{Type: "CaloProducer", Label: "hltTowers", Values: rt(2)},
			{Type: "PoolSource", Label: "source", Values: rt(3)},
		},
	}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromTreeMixed(t *testing.T) {
	const mixed = `{ "label": "HLT", "weight": 3, "groups": [
  { "label": "Reco", "weight": 3, "groups": [
    { "label": "hltLoose", "weight": 1 },
    { "label": "Tracking", "weight": 2, "groups": [
      { "label": "hltTracks", "weight": 2 }
    ]}
  ]}
]}`
	tree, err := ReadTree(strings.NewReader(mixed), "mixed.json")
	if err != nil {
		t.Fatal(err)
	}
	_, err = FromTree(tree)
	if !errors.Is(err, ErrMixedNode) {
		t.Fatalf("want ErrMixedNode, got %v", err)
	}
	var me *MixedNodeError
	if !errors.As(err, &me) || me.Label != "Reco" {
		t.Errorf("error does not name node Reco: %v", err)
	}

	// The order of the children does not matter.
	tree.Groups[0].Groups[0], tree.Groups[0].Groups[1] = tree.Groups[0].Groups[1], tree.Groups[0].Groups[0]
	if _, err := FromTree(tree); !errors.Is(err, ErrMixedNode) {
		t.Errorf("reordered children: want ErrMixedNode, got %v", err)
	}
}

func TestReadTreeNoGroups(t *testing.T) {
	if _, err := ReadTree(strings.NewReader(`{"label": "x", "weight": 1}`), "leaf.json"); err == nil {
		t.Errorf("reading a bare leaf succeeded")
	}
}

func TestBuildTree(t *testing.T) {
	mod := func(pkg, typ, label string, v float64) modproc.Classified {
		m := &modfmt.Module{Type: typ, Label: label, Values: map[string]float64{"time_real": v}}
		return modproc.Classified{Module: m, Package: pkg, Expanded: pkg + "|" + typ + "|" + label}
	}
	mods := []modproc.Classified{
		mod("Reco|Tracking", "TrackProducer", "hltTracks", 8),
		mod("Reco|Tracking", "TrackProducer", "hltTracksL3", 2),
		mod("Reco", "CaloProducer", "hltTowers", 4),
		mod("IO", "PoolSource", "source", 6),
		mod("IO", "Tiny", "tiny", 0.001),
	}
	colors := map[string]string{"Reco": "#ff0000"}
	tree := BuildTree(mods, TreeOptions{
		Title:     "HLT",
		Metric:    "time_real",
		Files:     2,
		Threshold: 0.001,
		Color:     func(l string) string { return colors[l] },
	})

	var buf strings.Builder
	if err := WriteTree(&buf, tree); err != nil {
		t.Fatal(err)
	}
	want := `{ "label": "HLT", "weight": 10.0005, "groups": [
  { "label": "Reco", "color": "#ff0000", "weight": 7, "groups": [
    { "label": "Tracking", "weight": 5, "groups": [
      { "label": "TrackProducer", "weight": 5, "groups": [
        { "label": "hltTracks", "weight": 4 },
        { "label": "hltTracksL3", "weight": 1 }
      ]}
    ]},
    { "label": "CaloProducer", "weight": 2, "groups": [
      { "label": "hltTowers", "weight": 2 }
    ]}
  ]},
  { "label": "IO", "weight": 3.0005, "groups": [
    { "label": "PoolSource", "weight": 3, "groups": [
      { "label": "source", "weight": 3 }
    ]}
  ]}
]}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	// The written tree converts back to the same modules.
	back, err := ReadTree(strings.NewReader(buf.String()), "circles.json")
	if err != nil {
		t.Fatal(err)
	}
	rep, err := FromTree(back)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Modules) != 4 {
		t.Errorf("round trip: got %d modules, want 4", len(rep.Modules))
	}
}
