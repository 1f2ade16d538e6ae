// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package palette

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{r, g, b, 0xff} }

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	if err != nil || c != rgb(0xff, 0x80, 0x00) {
		t.Errorf("ParseHex(#ff8000) = %v, %v", c, err)
	}
	if Hex(c) != "#ff8000" {
		t.Errorf("Hex = %q", Hex(c))
	}
	for _, bad := range []string{"ff8000", "#ff80", "#gg0000", "#ff80000"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded", bad)
		}
	}
}

func TestDarken(t *testing.T) {
	// 0x80*0.8 = 102.4, 0xff*0.8 = 204, 0x05*0.8 = 4.
	if got := Darken(rgb(0x80, 0xff, 0x05)); got != rgb(102, 204, 4) {
		t.Errorf("Darken = %v", got)
	}
}

func TestIsDark(t *testing.T) {
	for _, tt := range []struct {
		hex  string
		dark bool
	}{
		{"#000000", true},
		{"#ffffff", false},
		{"#0000ff", true},  // luma 29
		{"#00ff00", false}, // luma 150
		{"#a00000", true},  // luma 47.8
	} {
		c, _ := ParseHex(tt.hex)
		if IsDark(c) != tt.dark {
			t.Errorf("IsDark(%s) = %v, want %v", tt.hex, !tt.dark, tt.dark)
		}
	}
}

func TestAdjustLightness(t *testing.T) {
	c := rgb(100, 0, 200)
	if got := AdjustLightness(c, 1); got != c {
		t.Errorf("factor 1 changed colour to %v", got)
	}
	if got := AdjustLightness(c, 2); got != rgb(255, 255, 255) {
		t.Errorf("factor 2 = %v, want white", got)
	}
	if got := AdjustLightness(c, 0.5); got != rgb(50, 0, 100) {
		t.Errorf("factor 0.5 = %v", got)
	}
}

func TestVary(t *testing.T) {
	base := rgb(0x40, 0x80, 0xc0)
	a, b := Vary(base, "TrackProducer"), Vary(base, "TrackProducer")
	if a != b {
		t.Errorf("Vary is not deterministic: %v != %v", a, b)
	}
	// Factors range over [0.85, 1.25).
	lo, hi := AdjustLightness(base, 0.85), AdjustLightness(base, 1.25)
	for _, key := range []string{"a", "b", "c", "hltTracks", "x|y|z"} {
		v := Vary(base, key)
		if v.R < lo.R || v.R > hi.R {
			t.Errorf("Vary(%q) = %v outside [%v, %v]", key, v, lo, hi)
		}
	}
}

func TestLoad(t *testing.T) {
	want := Palette{"Reco": rgb(0xff, 0, 0), "others": rgb(0x10, 0x20, 0x30)}
	dir := t.TempDir()
	files := map[string]string{
		"colours.json": `{"Reco": "#ff0000", "others": "#102030"}`,
		"colours.yaml": "Reco: \"#ff0000\"\nothers: \"#102030\"\n",
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", name, diff)
		}
	}

	if _, err := Read(strings.NewReader(`{"Reco": "red"}`), "bad.json"); err == nil {
		t.Errorf("reading a named colour succeeded")
	}
}

func TestBase(t *testing.T) {
	p := Palette{"Reco": rgb(1, 2, 3)}
	if p.Base("Reco") != rgb(1, 2, 3) {
		t.Errorf("Base(Reco) = %v", p.Base("Reco"))
	}
	if p.Base("IO") != Fallback {
		t.Errorf("Base(IO) = %v, want fallback", p.Base("IO"))
	}
	p[Others] = rgb(9, 9, 9)
	if p.Base("IO") != rgb(9, 9, 9) {
		t.Errorf("Base(IO) = %v, want others", p.Base("IO"))
	}
}
