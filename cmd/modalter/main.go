// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modalter rewrites a report, scaling or removing modules or metrics.
//
// Usage:
//
//	modalter [flags] -input report.json -groups groups.json
//
// Modules are classified with the grouping file, and the action
// applies to those whose expanded path ("package|type|label")
// contains a match for -filter. The actions are:
//
//	scale           multiply -metric of the matching modules by -scale
//	fullscale       multiply every metric of the matching modules
//	remove_modules  delete the matching modules that carry -metric
//	remove_metric   delete -metric from the whole report
//	fullrun         multiply -metric of every module and of the total
//
// The report total is adjusted by the same amount as the modules, and
// the change is printed. The result is written next to the input, with
// "_scaled.json" replacing ".json", or over the input with -inplace.
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
	"circles/modproc"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modalter: ")
	log.SetFlags(0)
	if err := modalter(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// outputPath returns the file an altered copy of input is written to.
func outputPath(input string) string {
	if strings.HasSuffix(input, ".json") {
		return strings.TrimSuffix(input, ".json") + "_scaled.json"
	}
	return input + "_scaled.json"
}

func modalter(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modalter", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modalter [flags] -input report.json -groups groups.json\n")
		flags.PrintDefaults()
	}
	flagInput := flags.String("input", "", "read the report from `file`")
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flagMetric := flags.String("metric", "time_real", "`metric` to alter")
	flagAction := flags.String("action", "scale", "`action`: scale, fullscale, remove_modules, remove_metric, or fullrun")
	flagScale := flags.Float64("scale", 1, "scale `factor`")
	flagFilter := flags.String("filter", ".*", "alter modules whose expanded path matches `regexp`")
	flagInplace := flags.Bool("inplace", false, "overwrite the input report")
	flagDebug := flags.Bool("debug", false, "report modules that match no rule")
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
	action, err := modfmt.ParseAction(*flagAction)
	if err != nil {
		return err
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
	filter := modproc.CompileFilter(*flagFilter, warn)
	selected := make(map[*modfmt.Module]bool)
	for _, c := range classifier.Classify(rep.Modules) {
		if filter.MatchString(c.Expanded) {
			selected[c.Module] = true
		}
	}
	match := func(m *modfmt.Module) bool {
		if !selected[m] {
			return false
		}
		if action == modfmt.RemoveModules {
			_, ok := m.Values[string(metric)]
			return ok
		}
		return true
	}

	change, err := modfmt.Alter(rep, modfmt.Alteration{
		Action: action,
		Metric: metric,
		Factor: *flagScale,
		Match:  match,
	})
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	if action == modfmt.RemoveModules {
		for _, m := range change.Altered {
			fmt.Fprintf(out, "removed %s\n", m.Key())
		}
	}
	fmt.Fprintf(out, "total changed:\n")
	for _, name := range change.Metrics() {
		fmt.Fprintf(out, "\t%s: %g\n", name, change.Total[name])
	}
	if err := out.Flush(); err != nil {
		return err
	}

	path := *flagInput
	if !*flagInplace {
		path = outputPath(path)
	}
	return modfmt.WriteFile(path, rep, "    ")
}
