// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package palette maps package names to display colours.
package palette

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Others is the palette entry used for packages without a colour.
const Others = "others"

// Fallback is the colour used when the palette has neither the
// package nor Others.
var Fallback = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}

// A Palette maps package names to colours.
type Palette map[string]color.RGBA

// Load reads a palette from a JSON or YAML file mapping names to
// "#rrggbb" strings. The format is chosen by the file extension.
func Load(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return ReadYAML(f, path)
	}
	return Read(f, path)
}

// Read reads a JSON palette.
func Read(r io.Reader, fileName string) (Palette, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return fromStrings(raw, fileName)
}

// ReadYAML reads a YAML palette.
func ReadYAML(r io.Reader, fileName string) (Palette, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return fromStrings(raw, fileName)
}

func fromStrings(raw map[string]string, fileName string) (Palette, error) {
	p := make(Palette, len(raw))
	for name, s := range raw {
		c, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("%s: colour of %s: %w", fileName, name, err)
		}
		p[name] = c
	}
	return p, nil
}

// Lookup returns the colour of name and whether p has one.
func (p Palette) Lookup(name string) (color.RGBA, bool) {
	c, ok := p[name]
	return c, ok
}

// Base returns the colour of pkg, falling back to the Others entry
// and then to Fallback.
func (p Palette) Base(pkg string) color.RGBA {
	if c, ok := p[pkg]; ok {
		return c
	}
	if c, ok := p[Others]; ok {
		return c
	}
	return Fallback
}

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func scale(v uint8, f float64) uint8 {
	x := math.RoundToEven(float64(v) * f)
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// Darken scales each channel of c by 0.8.
func Darken(c color.RGBA) color.RGBA {
	return color.RGBA{scale(c.R, 0.8), scale(c.G, 0.8), scale(c.B, 0.8), c.A}
}

// IsDark reports whether c has a luma below 100, so that text drawn
// on it should be white.
func IsDark(c color.RGBA) bool {
	y := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return y < 100
}

// AdjustLightness moves c towards white for factor > 1, by
// factor-1 of the remaining distance, or scales it towards black for
// factor < 1.
func AdjustLightness(c color.RGBA, factor float64) color.RGBA {
	ch := func(v uint8) uint8 {
		x := float64(v) / 255
		if factor >= 1 {
			x += (1 - x) * (factor - 1)
		} else {
			x *= factor
		}
		x = math.Max(0, math.Min(1, x))
		return uint8(math.RoundToEven(x * 255))
	}
	return color.RGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}

// Vary returns a variation of base for key, with a lightness factor
// between 0.85 and 1.25 derived from a hash of key.
func Vary(base color.RGBA, key string) color.RGBA {
	h := fnv.New32a()
	io.WriteString(h, key)
	n := h.Sum32() % 997
	return AdjustLightness(base, 0.85+float64(n)/997*0.40)
}
