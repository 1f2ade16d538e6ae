// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modmerge merges reports and prints the result.
//
// Usage:
//
//	modmerge [-indent n] report.json [report.json ...]
//
// All reports must describe the same metrics. Modules with the same
// type and label are combined by summing their events and metric
// values; modules that appear in only some reports are carried over
// unchanged, in input order. The totals are summed the same way. A
// warning is printed if the reports name different processes.
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
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modmerge: ")
	log.SetFlags(0)
	if err := modmerge(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modmerge(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modmerge", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modmerge [flags] report.json [report.json ...]\n")
		flags.PrintDefaults()
	}
	flagIndent := flags.Int("indent", 2, "indent the output JSON by `n` spaces")
	flags.Parse(args)
	if flags.NArg() < 1 {
		flags.Usage()
		exit(2)
		return nil
	}

	reps, err := modfmt.ReadFiles(flags.Args())
	if err != nil {
		return err
	}
	merged, err := modfmt.MergeAll(reps, func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, "warning: "+format, args...)
	})
	if err != nil {
		return err
	}
	out := bufio.NewWriter(stdout)
	if err := modfmt.Write(out, merged, strings.Repeat(" ", *flagIndent)); err != nil {
		return err
	}
	return out.Flush()
}
