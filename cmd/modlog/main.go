// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modlog converts the FastReport job summaries of one or more framework
// logs into a report.
//
// Usage:
//
//	modlog [flags] -config config.py job.log [job.log ...]
//
// Rows with the same module label are summed, and the values are then
// averaged over the logs. Module types are read from the configuration
// dump given by -config; modules it does not declare get type "other".
// If the summary has a "total" row, the part of the total not accounted
// for by any module is reported as a module labelled "other".
//
// The report is printed to standard output, or written to the file
// named by -o.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"circles/legacy"
	"circles/modfmt"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modlog: ")
	log.SetFlags(0)
	if err := modlog(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modlog(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modlog", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modlog [flags] -config config.py job.log [job.log ...]\n")
		flags.PrintDefaults()
	}
	flagConfig := flags.String("config", "", "read module types from the configuration dump `file`")
	flagOut := flags.String("o", "", "write the report to `file` instead of standard output")
	flagIndent := flags.Int("indent", 2, "indent the output JSON by `n` spaces")
	flags.Parse(args)
	if *flagConfig == "" || flags.NArg() < 1 {
		flags.Usage()
		exit(2)
		return nil
	}

	types, err := loadTypes(*flagConfig)
	if err != nil {
		return err
	}
	var sum legacy.JobSummary
	for _, path := range flags.Args() {
		if err := readLog(&sum, path); err != nil {
			return err
		}
	}
	rep := sum.Report(types, func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, "warning: "+format, args...)
	})

	indent := strings.Repeat(" ", *flagIndent)
	if *flagOut != "" {
		return modfmt.WriteFile(*flagOut, rep, indent)
	}
	out := bufio.NewWriter(stdout)
	if err := modfmt.Write(out, rep, indent); err != nil {
		return err
	}
	return out.Flush()
}

func loadTypes(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	types, err := legacy.LoadModuleTypes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return types, nil
}

func readLog(sum *legacy.JobSummary, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sum.Read(f, path)
}
