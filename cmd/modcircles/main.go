// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modcircles writes reports as the nested package tree displayed by
// the circles viewer.
//
// Usage:
//
//	modcircles [flags] -groups groups.json report.json [report.json ...]
//
// Modules are classified with the grouping file. The tree has one
// level per package path segment, then the module type, then the
// module label, and every node weighs the per-event value of -metric
// summed over the modules below it, averaged over the reports. Nodes
// weighing at most -threshold are omitted. Nodes named in the -colours
// file carry that colour.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"circles/legacy"
	"circles/modfmt"
	"circles/modproc"
	"circles/palette"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modcircles: ")
	log.SetFlags(0)
	if err := modcircles(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modcircles(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modcircles", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modcircles [flags] -groups groups.json report.json [report.json ...]\n")
		flags.PrintDefaults()
	}
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flagColours := flags.String("colours", "", "read package colours from `file` (JSON or YAML)")
	flagMetric := flags.String("metric", "time_real", "weigh nodes by `metric`")
	flagThreshold := flags.Float64("threshold", 0.001, "omit nodes weighing at most `value`")
	flagTitle := flags.String("title", "", "label the root `title` (default: the first report's process name)")
	flagOut := flags.String("o", "", "write the tree to `file` instead of standard output")
	flagDebug := flags.Bool("debug", false, "report modules that match no rule")
	flags.Parse(args)
	if *flagGroups == "" || flags.NArg() < 1 {
		flags.Usage()
		exit(2)
		return nil
	}
	metric, err := modfmt.ParseMetric(*flagMetric)
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
		classifier.Debug = func(format string, args ...interface{}) {
			fmt.Fprintf(stderr, format, args...)
		}
	}
	var colours palette.Palette
	if *flagColours != "" {
		if colours, err = palette.Load(*flagColours); err != nil {
			return err
		}
	}

	reps, err := modfmt.ReadFiles(flags.Args())
	if err != nil {
		return err
	}
	title := *flagTitle
	var mods []modproc.Classified
	for _, rep := range reps {
		if title == "" && rep.Total != nil {
			title = rep.Total.Label
		}
		mods = append(mods, classifier.Classify(perEvent(rep).Modules)...)
	}

	tree := legacy.BuildTree(mods, legacy.TreeOptions{
		Title:     title,
		Metric:    string(metric),
		Files:     len(reps),
		Threshold: *flagThreshold,
		Color: func(label string) string {
			if c, ok := colours.Lookup(label); ok {
				return palette.Hex(c)
			}
			return ""
		},
	})

	if *flagOut != "" {
		f, err := os.Create(*flagOut)
		if err != nil {
			return err
		}
		if err := legacy.WriteTree(f, tree); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	out := bufio.NewWriter(stdout)
	if err := legacy.WriteTree(out, tree); err != nil {
		return err
	}
	return out.Flush()
}

// perEvent returns a copy of rep whose module values are divided by
// the report's event count.
func perEvent(rep *modfmt.Report) *modfmt.Report {
	rep = rep.Clone()
	if n := rep.Events(); n > 1 {
		for _, m := range rep.Modules {
			for name, v := range m.Values {
				m.Values[name] = v / float64(n)
			}
		}
	}
	return rep
}
