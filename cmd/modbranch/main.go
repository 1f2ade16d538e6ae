// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modbranch writes a grouping file that assigns modules to the branch
// named in their type.
//
// Usage:
//
//	modbranch [-o groups.json] report.json
//
// A module type of the form "prefix_branch_rest" produces the rule
// "*branch*|" for package "branch". A type without an underscore
// produces "type*|" for package "other". Rules keep the order in which
// their types first appear in the report. With -o -, the grouping file
// is written to standard output.
package main

import (
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
	log.SetPrefix("modbranch: ")
	log.SetFlags(0)
	if err := modbranch(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modbranch(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modbranch", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modbranch [-o groups.json] report.json\n")
		flags.PrintDefaults()
	}
	flagOut := flags.String("o", "by_branch_name.json", "write the grouping rules to `file`")
	flags.Parse(args)

	if flags.NArg() != 1 {
		flags.Usage()
		exit(2)
		return nil
	}

	rep, err := modfmt.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}
	rules := modproc.BranchRules(rep.Modules)

	if *flagOut == "-" {
		return modproc.WriteRules(stdout, rules)
	}
	f, err := os.Create(*flagOut)
	if err != nil {
		return err
	}
	if err := modproc.WriteRules(f, rules); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
