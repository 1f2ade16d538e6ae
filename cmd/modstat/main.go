// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modstat classifies the modules of a report into packages and
// prints the chosen metric aggregated by package path.
//
// Usage:
//
//	modstat [flags] -input report.json -groups groups.json
//
// Each module is assigned to the package of the first rule in the
// grouping file that matches its type and label, or to "Unassigned".
// The module's expanded path is then "package|type|label", and
// modules are summed by the first -level segments of that path.
// Values are per event: they are divided by the event count of the
// report total (see -norm).
//
// By default modstat prints the flags it ran with, followed by one
// line per group:
//
//	Reco|Tracking: 12.50 41.67%
//
// giving the per-event value and its share of the report's total.
//
// The -markdown, -latex, -html, and -tree flags instead print a
// table in which a repeated path prefix is printed once, spanning
// the rows of the groups below it. With -cutoff, groups whose share
// is below the given percentage are left out of the table.
//
// The -pprof flag additionally writes the classified modules as a
// pprof profile, with one stack frame per path segment, which can
// be browsed with "go tool pprof -http".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"circles/modfmt"
	"circles/modprof"
	"circles/modproc"
	"circles/modtab"
	"circles/modtree"
	"circles/modunit"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modstat: ")
	log.SetFlags(0)
	if err := modstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modstat(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modstat", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modstat [flags] -input report.json -groups groups.json\n")
		flags.PrintDefaults()
	}
	flagInput := flags.String("input", "", "read the report from `file`")
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flagMetric := flags.String("metric", "time_real", "aggregate `metric`: mem_alloc, mem_free, time_real, time_thread, time_real_abs, time_thread_abs")
	flagLevel := flags.Int("level", 1, "group by the first `n` segments of the expanded path")
	flagFilter := flags.String("filter", ".*", "only include modules whose expanded path matches `regexp`")
	flagSort := flags.String("sort", "d", "sort `order`: a (ascending) or d (descending)")
	flagLimit := flags.Int("limit", 999, "print at most `n` groups")
	flagNorm := flags.String("norm", "report", "per-event `divisor`: report, module, or none")
	flagDebug := flags.Bool("debug", false, "report modules that match no rule")
	flagMarkdown := flags.Bool("markdown", false, "print a Markdown table")
	flagLaTeX := flags.Bool("latex", false, "print a LaTeX table")
	flagHTML := flags.Bool("html", false, "print an HTML table")
	flagTree := flags.Bool("tree", false, "print a plain text table")
	flagCutoff := flags.Float64("cutoff", 0, "omit groups below `percent` of the total from tables")
	flagPprof := flags.String("pprof", "", "write the classified modules as a pprof profile to `file`")
	flags.Parse(args)

	if *flagInput == "" || *flagGroups == "" || flags.NArg() > 0 {
		flags.Usage()
		exit(2)
		return nil
	}
	metric, err := modfmt.ParseMetric(*flagMetric)
	if err != nil {
		return err
	}
	norm, err := modproc.ParseNormalization(*flagNorm)
	if err != nil {
		return err
	}
	var descending bool
	switch *flagSort {
	case "a":
	case "d":
		descending = true
	default:
		return fmt.Errorf("sort order must be a or d")
	}
	var format func(io.Writer, *modtab.Table) error
	nFormats := 0
	for _, f := range []struct {
		set bool
		fn  func(io.Writer, *modtab.Table) error
	}{
		{*flagMarkdown, modtab.FormatMarkdown},
		{*flagLaTeX, modtab.FormatLaTeX},
		{*flagHTML, modtab.FormatHTML},
		{*flagTree, modtab.FormatText},
	} {
		if f.set {
			format = f.fn
			nFormats++
		}
	}
	if nFormats > 1 {
		return fmt.Errorf("at most one of -markdown, -latex, -html, and -tree may be given")
	}

	warn := func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, format, args...)
	}

	rep, err := modfmt.ReadFile(*flagInput)
	if err != nil {
		return err
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
		classifier.Debug = warn
	}
	mods := classifier.Classify(rep.Modules)

	groups := modproc.Aggregate(mods, modproc.AggregateOptions{
		Metric: string(metric),
		Depth:  *flagLevel,
		Filter: modproc.CompileFilter(*flagFilter, warn),
		Norm:   norm,
		Events: rep.Events(),
	})
	modproc.SortGroups(groups, descending)
	if *flagLimit >= 0 && len(groups) > *flagLimit {
		groups = groups[:*flagLimit]
	}
	total := rep.TotalValue(string(metric))
	events := rep.Events()
	if norm == modproc.Raw || events <= 0 {
		events = 1
	}

	if *flagPprof != "" {
		if err := writeProfile(*flagPprof, mods, rep, metric, norm); err != nil {
			return err
		}
	}

	out := bufio.NewWriter(stdout)
	if format == nil {
		flags.VisitAll(func(f *flag.Flag) {
			fmt.Fprintln(out, strings.TrimSpace(f.Name+" "+f.Value.String()))
		})
		fmt.Fprintln(out)
		for _, g := range groups {
			fmt.Fprintf(out, "%s: %.2f %.2f%%\n", g.Key, g.Value, modproc.Percent(g.Value, events, total))
		}
		return out.Flush()
	}

	keys := make([]string, len(groups))
	values := make([][]float64, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
		values[i] = []float64{g.Value, modproc.Percent(g.Value, events, total)}
	}
	order := modtab.Ascending
	if descending {
		order = modtab.Descending
	}
	t := modtab.Layout(modtree.Build("total", keys, values), modtab.Options{
		Headers: headers(*flagLevel, keys),
		Columns: []modtab.Column{
			{Header: modunit.Scaler{Unit: metric.Unit()}.Label(metric)},
			{Header: "%", Percent: true},
		},
		Cutoff:    *flagCutoff,
		CutoffCol: 1,
		Order:     order,
	})
	if err := format(out, t); err != nil {
		return err
	}
	return out.Flush()
}

// headers names the label columns of a table of keys. The expanded
// path ends in type and label, and everything before them is package.
func headers(level int, keys []string) []string {
	depth := 0
	for _, k := range keys {
		if n := strings.Count(k, modproc.Sep) + 1; n > depth {
			depth = n
		}
	}
	hdr := make([]string, depth)
	if depth > 0 {
		hdr[0] = "Package"
	}
	if level <= 0 && depth >= 3 {
		hdr[depth-2], hdr[depth-1] = "Type", "Label"
	}
	return hdr
}

func writeProfile(path string, mods []modproc.Classified, rep *modfmt.Report, metric modfmt.Metric, norm modproc.Normalization) error {
	metrics := []modfmt.Metric{metric}
	for _, name := range rep.Resources.Names() {
		m, err := modfmt.ParseMetric(name)
		if err == nil && m != metric {
			metrics = append(metrics, m)
		}
	}
	opts := modprof.Options{Metrics: metrics}
	if norm != modproc.Raw {
		opts.Events = rep.Events()
	}
	p, err := modprof.Build(mods, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := modprof.Write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
