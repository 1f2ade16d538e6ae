// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modunassigned lists the modules that match no grouping rule.
//
// Usage:
//
//	modunassigned -groups groups.json report.json [report.json ...]
//
// Each unmatched module is printed once as "type|label", in the order
// it first appears in the reports. The output is a convenient starting
// point for new rules.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"circles/modfmt"
	"circles/modproc"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modunassigned: ")
	log.SetFlags(0)
	if err := modunassigned(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modunassigned(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modunassigned", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modunassigned -groups groups.json report.json [report.json ...]\n")
		flags.PrintDefaults()
	}
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flags.Parse(args)

	if *flagGroups == "" || flags.NArg() == 0 {
		flags.Usage()
		exit(2)
		return nil
	}

	rules, err := modproc.LoadRules(*flagGroups)
	if err != nil {
		return err
	}
	classifier, err := modproc.Compile(rules)
	if err != nil {
		return fmt.Errorf("%s: %w", *flagGroups, err)
	}
	reps, err := modfmt.ReadFiles(flags.Args())
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	seen := make(map[string]bool)
	for _, rep := range reps {
		for _, m := range classifier.Unmatched(rep.Modules) {
			if k := m.Key(); !seen[k] {
				seen[k] = true
				fmt.Fprintln(out, k)
			}
		}
	}
	return out.Flush()
}
