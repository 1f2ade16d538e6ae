// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Moddot colours the module nodes of a Graphviz dependency graph by
// package.
//
// Usage:
//
//	moddot -groups groups.json -colours colours.json [-o out.dot] [graph.dot]
//
// Node lines of the form
//
//	0[color=black, fillcolor=white, label=source, shape=oval, style=filled, tooltip=PoolSource];
//
// are classified by their tooltip (the module type) and label and filled
// with the colour of their package. Nodes that were filled with a colour
// other than white get a darker shade. Other lines are copied unchanged.
// Moddot reads standard input if no file is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"circles/internal/dotcolor"
	"circles/modproc"
	"circles/palette"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("moddot: ")
	log.SetFlags(0)
	if err := moddot(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func moddot(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("moddot", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: moddot -groups groups.json -colours colours.json [-o out.dot] [graph.dot]\n")
		flags.PrintDefaults()
	}
	flagGroups := flags.String("groups", "", "read grouping rules from `file` (JSON or YAML)")
	flagColours := flags.String("colours", "", "read package colours from `file` (JSON or YAML)")
	flagOut := flags.String("o", "", "write the graph to `file` instead of standard output")
	flags.Parse(args)

	if *flagGroups == "" || *flagColours == "" || flags.NArg() > 1 {
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
	pal, err := palette.Load(*flagColours)
	if err != nil {
		return err
	}

	in := stdin
	if flags.NArg() == 1 {
		f, err := os.Open(flags.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = bufio.NewReader(f)
	}

	if *flagOut == "" {
		return dotcolor.Recolor(stdout, in, classifier, pal)
	}
	f, err := os.Create(*flagOut)
	if err != nil {
		return err
	}
	if err := dotcolor.Recolor(f, in, classifier, pal); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
