// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modcompare compares the breakdown of a metric across several reports.
//
// Usage:
//
//	modcompare [flags] -groups groups.json a.json b.json [more.json ...]
//
// The modules of each report are classified with the grouping file and
// summed into categories chosen by -level: the top-level package, the
// module type, the module label, or the full expanded path. Modcompare
// prints a table with the value of every category in every report, its
// difference from the -baseline report, and its mean and standard
// deviation across reports.
//
// With -o, it also draws a chart. The upper panel has one bar per report,
// stacked by category; the lower panel stacks, for every report, the
// increases of each category over the baseline above zero and the
// decreases below. Categories are coloured by their package using the
// -colours file; below the package level, each category gets a lighter
// or darker shade of the colour of the package contributing most to it.
//
// Categories are ordered by -sort-by, where A is the first report and B
// the last: A, B, diff (|B-A|), max (of A and B), or sum (A+B). With
// -top, only the first n categories are kept.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"circles/internal/texttab"
	"circles/modchart"
	"circles/modfmt"
	"circles/modproc"
	"circles/modunit"
	"circles/palette"

	"github.com/aclements/go-moremath/stats"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modcompare: ")
	log.SetFlags(0)
	if err := modcompare(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	level      modproc.Level
	metric     modfmt.Metric
	perEvent   bool
	pkg        string
	pkgRegexp  *regexp.Regexp
	requireMap bool
}

// A comparison holds the category values of several reports.
type comparison struct {
	files  []string
	cats   []string
	values [][]float64 // [file][category]
	sets   [][]modproc.Classified
	events []float64 // per-report divisor, 0 for none
}

func modcompare(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modcompare", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modcompare [flags] -groups groups.json report.json [report.json ...]\n")
		flags.PrintDefaults()
	}
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flagColours := flags.String("colours", "", "read package colours from `file` (JSON or YAML)")
	flagDebug := flags.Bool("debug", false, "report modules that match no rule")
	flagMetric := flags.String("metric", "time_real", "compare `metric`")
	flagPerEvent := flags.Bool("per-event", false, "divide values by each report's event count")
	flagLevel := flags.String("level", "package", "categorize by `level`: package, type, label, or expanded")
	flagPackage := flags.String("package", "", "only include modules in top-level package `name`")
	flagPackageRegexp := flags.String("package-regex", "", "only include modules whose top-level package matches `regexp`")
	flagRequireMap := flags.Bool("require-map", false, "leave out modules that match no rule")
	flagLabels := flags.String("labels", "", "comma-separated `names` of the reports (default: file names)")
	flagBaseline := flags.Int("baseline", 0, "compare against report `index`")
	flagSortBy := flags.String("sort-by", "B", "order categories by `key`: A, B, diff, max, or sum")
	flagTop := flags.Int("top", 0, "keep only the first `n` categories")
	flagTitle := flags.String("title", "", "chart `title`")
	flagOut := flags.String("o", "", "draw the chart to `file` (.png, .svg, or .pdf)")
	flags.Parse(args)

	if *flagGroups == "" || flags.NArg() < 1 {
		flags.Usage()
		exit(2)
		return nil
	}
	files := flags.Args()

	var opts options
	var err error
	if opts.level, err = modproc.ParseLevel(*flagLevel); err != nil {
		return err
	}
	if opts.metric, err = modfmt.ParseMetric(*flagMetric); err != nil {
		return err
	}
	opts.perEvent = *flagPerEvent
	opts.pkg = *flagPackage
	opts.requireMap = *flagRequireMap
	if *flagPackageRegexp != "" {
		if opts.pkgRegexp, err = regexp.Compile(*flagPackageRegexp); err != nil {
			return fmt.Errorf("-package-regex: %w", err)
		}
	}
	key, err := sortKey(*flagSortBy)
	if err != nil {
		return err
	}

	labels := make([]string, len(files))
	for i, f := range files {
		labels[i] = strings.TrimSuffix(filepath.Base(f), ".json")
	}
	if *flagLabels != "" {
		labels = strings.Split(*flagLabels, ",")
		if len(labels) != len(files) {
			return fmt.Errorf("-labels names %d reports, but %d were given", len(labels), len(files))
		}
	}
	if *flagBaseline < 0 || *flagBaseline >= len(files) {
		return fmt.Errorf("-baseline must be a valid index into the %d reports", len(files))
	}

	rules, err := modproc.LoadRules(*flagGroups)
	if err != nil {
		return err
	}
	classifier, err := modproc.Compile(rules)
	if err != nil {
		return fmt.Errorf("%s: %w", *flagGroups, err)
	}
	if *flagDebug {
		classifier.Debug = func(format string, args ...interface{}) {
			fmt.Fprintf(stderr, format, args...)
		}
	}
	var pal palette.Palette
	if *flagColours != "" {
		if pal, err = palette.Load(*flagColours); err != nil {
			return err
		}
	}

	reps, err := modfmt.ReadFiles(files)
	if err != nil {
		return err
	}
	c := compare(reps, classifier, opts)
	c.files = labels
	c.sortBy(key)
	c.truncate(*flagTop)

	out := bufio.NewWriter(stdout)
	if err := c.summary(out, opts.metric, *flagBaseline); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}

	if *flagOut == "" {
		return nil
	}
	yLabel := string(opts.metric)
	if opts.perEvent {
		yLabel += " per event"
	}
	chart := &modchart.Chart{
		Title:      *flagTitle,
		YLabel:     fmt.Sprintf("%s [%s]", yLabel, opts.metric.Unit()),
		Files:      c.files,
		Categories: c.cats,
		Colors:     c.colors(pal, opts),
		Values:     c.values,
		Baseline:   *flagBaseline,
	}
	return chart.Save(*flagOut)
}

// keep reports whether m passes the package filters of opts.
func (o options) keep(m modproc.Classified) bool {
	pkg := m.TopPackage()
	if o.requireMap && pkg == modproc.Unassigned {
		return false
	}
	if o.pkg != "" && pkg != o.pkg {
		return false
	}
	if o.pkgRegexp != nil && !o.pkgRegexp.MatchString(pkg) {
		return false
	}
	return true
}

// compare classifies and categorizes each report.
func compare(reps []*modfmt.Report, cl *modproc.Classifier, opts options) *comparison {
	c := &comparison{}
	var aggs []map[string]float64
	for _, rep := range reps {
		var mods []modproc.Classified
		for _, m := range cl.Classify(rep.Modules) {
			if opts.keep(m) {
				mods = append(mods, m)
			}
		}
		var events float64
		if opts.perEvent {
			events = math.Max(float64(rep.Events()), 1)
		}
		c.sets = append(c.sets, mods)
		c.events = append(c.events, events)
		aggs = append(aggs, modproc.Categorize(mods, opts.level, string(opts.metric), events))
	}
	c.cats = modproc.Categories(aggs)
	for _, agg := range aggs {
		row := make([]float64, len(c.cats))
		for j, cat := range c.cats {
			row[j] = agg[cat]
		}
		c.values = append(c.values, row)
	}
	return c
}

// sortKey returns the function ordering categories for name, given the
// category's values in the first (a) and last (b) reports.
func sortKey(name string) (func(a, b float64) float64, error) {
	switch name {
	case "A":
		return func(a, b float64) float64 { return a }, nil
	case "B":
		return func(a, b float64) float64 { return b }, nil
	case "diff":
		return func(a, b float64) float64 { return math.Abs(b - a) }, nil
	case "max":
		return math.Max, nil
	case "sum":
		return func(a, b float64) float64 { return a + b }, nil
	}
	return nil, fmt.Errorf("-sort-by must be one of A, B, diff, max, sum")
}

// sortBy orders the categories by decreasing key.
func (c *comparison) sortBy(key func(a, b float64) float64) {
	if len(c.values) == 0 {
		return
	}
	first, last := c.values[0], c.values[len(c.values)-1]
	order := make([]int, len(c.cats))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		oi, oj := order[i], order[j]
		return key(first[oi], last[oi]) > key(first[oj], last[oj])
	})
	c.permute(order)
}

// truncate keeps the first n categories, if n > 0.
func (c *comparison) truncate(n int) {
	if n <= 0 || n >= len(c.cats) {
		return
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	c.permute(order)
}

func (c *comparison) permute(order []int) {
	cats := make([]string, len(order))
	for i, j := range order {
		cats[i] = c.cats[j]
	}
	c.cats = cats
	for f, row := range c.values {
		nrow := make([]float64, len(order))
		for i, j := range order {
			nrow[i] = row[j]
		}
		c.values[f] = nrow
	}
}

// colors returns the colour of each category.
func (c *comparison) colors(pal palette.Palette, opts options) []color.Color {
	out := make([]color.Color, len(c.cats))
	for i, cat := range c.cats {
		pkg := modproc.DominantPackage(cat, opts.level, c.sets, c.events, string(opts.metric))
		base := pal.Base(pkg)
		if opts.level == modproc.LevelPackage {
			out[i] = base
		} else {
			out[i] = palette.Vary(base, cat)
		}
	}
	return out
}

func (c *comparison) column(j int) []float64 {
	col := make([]float64, len(c.values))
	for i, row := range c.values {
		col[i] = row[j]
	}
	return col
}

func (c *comparison) totals() []float64 {
	t := make([]float64, len(c.values))
	for i, row := range c.values {
		for _, v := range row {
			t[i] += v
		}
	}
	return t
}

// summary prints the comparison as a text table.
func (c *comparison) summary(w io.Writer, metric modfmt.Metric, baseline int) error {
	if len(c.cats) == 0 {
		_, err := fmt.Fprintf(w, "no modules to compare\n")
		return err
	}
	var all []float64
	for _, row := range c.values {
		all = append(all, row...)
	}
	unit := modunit.CommonScale(all, metric)
	label := unit.Label(metric)
	unit.Unit = ""
	signed := func(v float64) string {
		if v > 0 {
			return "+" + unit.Format(v)
		}
		return unit.Format(v)
	}
	multi := len(c.files) > 1

	var tab texttab.Table
	tab.Row().Cell(label)
	for _, f := range c.files {
		tab.Cell(f, texttab.Right)
	}
	for i, f := range c.files {
		if i != baseline {
			tab.Cell(f+"-"+c.files[baseline], texttab.Right)
		}
	}
	if multi {
		tab.Cell("mean", texttab.Right).Cell("stddev", texttab.Right)
	}
	tab.Rule('-')

	row := func(name string, vals []float64) {
		tab.Row().Cell(name)
		for _, v := range vals {
			tab.Cell(unit.Format(v), texttab.Right)
		}
		for i, v := range vals {
			if i != baseline {
				tab.Cell(signed(v-vals[baseline]), texttab.Right)
			}
		}
		if multi {
			tab.Cell(unit.Format(stats.Mean(vals)), texttab.Right)
			tab.Cell(unit.Format(stats.StdDev(vals)), texttab.Right)
		}
	}
	for j, cat := range c.cats {
		row(cat, c.column(j))
	}
	tab.Rule('-')
	totals := c.totals()
	row("total", totals)
	if err := tab.Format(w); err != nil {
		return err
	}

	if !multi {
		return nil
	}
	for _, t := range totals {
		if t <= 0 {
			return nil
		}
	}
	_, err := fmt.Fprintf(w, "geomean of totals: %s\n", modunit.Scale(stats.GeoMean(totals), metric))
	return err
}
