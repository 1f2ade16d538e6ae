// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modchart draws stacked bar charts comparing the per-category
// breakdown of several reports.
package modchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// A Chart compares reports broken down into categories. The top
// panel has one bar per report, stacked by category. The bottom
// panel shows, for each report, the per-category difference from
// the baseline report, with increases stacked above zero and
// decreases below.
type Chart struct {
	Title  string
	YLabel string

	// Files labels the reports, one bar each.
	Files []string

	// Categories and Colors describe the stacked segments.
	Categories []string
	Colors     []color.Color

	// Values[i][j] is the value of category j in report i.
	Values [][]float64

	// Baseline is the index of the report deltas are taken against.
	Baseline int
}

func (c *Chart) check() error {
	if len(c.Files) == 0 || len(c.Categories) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	if len(c.Values) != len(c.Files) {
		return fmt.Errorf("have values for %d reports, want %d", len(c.Values), len(c.Files))
	}
	for i, v := range c.Values {
		if len(v) != len(c.Categories) {
			return fmt.Errorf("report %s has %d values, want %d", c.Files[i], len(v), len(c.Categories))
		}
	}
	if len(c.Colors) != len(c.Categories) {
		return fmt.Errorf("have %d colours for %d categories", len(c.Colors), len(c.Categories))
	}
	if c.Baseline < 0 || c.Baseline >= len(c.Files) {
		return fmt.Errorf("baseline %d out of range", c.Baseline)
	}
	return nil
}

// StackOrder returns category indexes ordered by increasing average
// value across reports, the order segments are stacked in.
func (c *Chart) StackOrder() []int {
	avg := make([]float64, len(c.Categories))
	for _, row := range c.Values {
		for j, v := range row {
			avg[j] += v / float64(len(c.Values))
		}
	}
	order := make([]int, len(avg))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return avg[order[a]] < avg[order[b]] })
	return order
}

// Deltas returns, for every report, the difference from the baseline
// in each category.
func (c *Chart) Deltas() [][]float64 {
	base := c.Values[c.Baseline]
	d := make([][]float64, len(c.Values))
	for i, row := range c.Values {
		d[i] = make([]float64, len(row))
		for j, v := range row {
			d[i][j] = v - base[j]
		}
	}
	return d
}

// Totals returns the sum over categories of each report.
func (c *Chart) Totals() []float64 {
	t := make([]float64, len(c.Values))
	for i, row := range c.Values {
		for _, v := range row {
			t[i] += v
		}
	}
	return t
}

func (c *Chart) column(j int, vals [][]float64, clip func(float64) float64) plotter.Values {
	col := make(plotter.Values, len(vals))
	for i, row := range vals {
		col[i] = clip(row[j])
	}
	return col
}

func (c *Chart) bars(vals plotter.Values, j int, w vg.Length) (*plotter.BarChart, error) {
	b, err := plotter.NewBarChart(vals, w)
	if err != nil {
		return nil, err
	}
	b.Color = c.Colors[j]
	b.LineStyle.Width = vg.Points(0.4)
	b.LineStyle.Color = color.Black
	return b, nil
}

// Plots builds the two panels of the chart with bars of width w.
func (c *Chart) Plots(w vg.Length) (top, delta *plot.Plot, err error) {
	if err := c.check(); err != nil {
		return nil, nil, err
	}
	order := c.StackOrder()
	same := func(v float64) float64 { return v }

	top = plot.New()
	top.Title.Text = c.Title
	top.Y.Label.Text = c.YLabel
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	top.Add(grid)

	var below *plotter.BarChart
	var stacked []*plotter.BarChart
	for _, j := range order {
		b, err := c.bars(c.column(j, c.Values, same), j, w)
		if err != nil {
			return nil, nil, err
		}
		if below != nil {
			b.StackOn(below)
		}
		below = b
		stacked = append(stacked, b)
		top.Add(b)
	}
	// The legend lists the top segment first.
	for k := len(stacked) - 1; k >= 0; k-- {
		top.Legend.Add(c.Categories[order[k]], stacked[k])
	}
	top.Legend.Top = true
	top.Legend.Left = true

	totals := c.Totals()
	ymax := 0.0
	for _, t := range totals {
		ymax = math.Max(ymax, t)
	}
	if ymax <= 0 {
		ymax = 1
	}
	xys := make(plotter.XYs, len(totals))
	labels := make([]string, len(totals))
	for i, t := range totals {
		xys[i] = plotter.XY{X: float64(i), Y: t + 0.02*ymax}
		labels[i] = fmt.Sprintf("%.2f", t)
	}
	tl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, nil, err
	}
	for i := range tl.TextStyle {
		tl.TextStyle[i].XAlign = draw.XCenter
	}
	top.Add(tl)
	top.Y.Min = 0
	top.Y.Max = ymax * 1.15
	top.NominalX(c.Files...)

	delta = plot.New()
	delta.Y.Label.Text = "Δ vs " + c.Files[c.Baseline]
	grid = plotter.NewGrid()
	grid.Vertical.Color = nil
	delta.Add(grid)
	deltas := c.Deltas()
	pos := func(v float64) float64 { return math.Max(v, 0) }
	neg := func(v float64) float64 { return math.Min(v, 0) }
	for _, clip := range []func(float64) float64{pos, neg} {
		var below *plotter.BarChart
		for _, j := range order {
			b, err := c.bars(c.column(j, deltas, clip), j, w)
			if err != nil {
				return nil, nil, err
			}
			if below != nil {
				b.StackOn(below)
			}
			below = b
			delta.Add(b)
		}
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: 0}, {X: float64(len(c.Files)) - 0.5, Y: 0}})
	if err != nil {
		return nil, nil, err
	}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	delta.Add(zero)
	delta.NominalX(c.Files...)

	return top, delta, nil
}

// Draw draws the chart on dc, with the top panel taking two thirds
// of the height.
func (c *Chart) Draw(dc draw.Canvas) error {
	width := dc.Max.X - dc.Min.X
	height := dc.Max.Y - dc.Min.Y
	bw := width / vg.Length(2*len(c.Files)+2)
	if bw > vg.Centimeter {
		bw = vg.Centimeter
	}
	top, delta, err := c.Plots(bw)
	if err != nil {
		return err
	}
	top.Draw(draw.Crop(dc, 0, 0, height/3, 0))
	delta.Draw(draw.Crop(dc, 0, 0, 0, -2*height/3))
	return nil
}

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// FormatOf returns the format named by path's extension.
func FormatOf(path string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); f {
	case PNG, SVG, PDF:
		return f, nil
	}
	return "", fmt.Errorf("%s: unsupported image format (want .png, .svg or .pdf)", path)
}

// Size returns a chart size suited to n reports.
func Size(n int) (width, height vg.Length) {
	w := math.Max(10, 1.2*float64(n))
	return vg.Length(w) * vg.Inch, 7 * vg.Inch
}

// Render writes the chart to w in format f.
func (c *Chart) Render(w io.Writer, f Format, width, height vg.Length) error {
	var cw vg.CanvasWriterTo
	switch f {
	case PNG:
		cw = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
			vgimg.UseDPI(150), vgimg.UseBackgroundColor(color.White))}
	case SVG:
		cw = vgsvg.New(width, height)
	case PDF:
		cw = vgpdf.New(width, height)
	default:
		return fmt.Errorf("unsupported image format %q", f)
	}
	if err := c.Draw(draw.New(cw)); err != nil {
		return err
	}
	_, err := cw.WriteTo(w)
	return err
}

// Save renders the chart to path in the format given by its
// extension, creating the parent directory if needed.
func (c *Chart) Save(path string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	width, height := Size(len(c.Files))
	if err := c.Render(out, f, width, height); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
