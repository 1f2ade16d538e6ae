// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Modconvert converts a legacy circles package tree into a report.
//
// Usage:
//
//	modconvert [tree.json]
//
// The tree is read from the named file, or from standard input, and
// the report is printed to standard output. A tree node whose
// children are all leaves is a module type, and each child is one
// module. Legacy trees hold only the average real time per event, so
// the report has a single time_real resource and one event.
//
// A node whose children are partly leaves and partly nodes cannot be
// interpreted and is reported as an error.
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
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("modconvert: ")
	log.SetFlags(0)
	if err := modconvert(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func modconvert(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("modconvert", flag.ExitOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: modconvert [tree.json]\n")
		flags.PrintDefaults()
	}
	flags.Parse(args)
	if flags.NArg() > 1 {
		flags.Usage()
		exit(2)
		return nil
	}

	in, name := stdin, "<stdin>"
	if flags.NArg() == 1 {
		name = flags.Arg(0)
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	tree, err := legacy.ReadTree(in, name)
	if err != nil {
		return err
	}
	rep, err := legacy.FromTree(tree)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	out := bufio.NewWriter(stdout)
	if err := modfmt.Write(out, rep, "  "); err != nil {
		return err
	}
	return out.Flush()
}
