// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modproc

import (
	"fmt"
	"regexp"
	"strings"

	"circles/modfmt"
)

// Sep separates the segments of package and expanded paths.
const Sep = "|"

// Unassigned is the package of modules that match no rule.
const Unassigned = "Unassigned"

// A PatternError reports a rule pattern that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

type compiledRule struct {
	typ, label *regexp.Regexp // nil matches anything
	pkg        string
}

// A Classifier assigns modules to packages using an ordered list of
// rules. The first matching rule wins.
type Classifier struct {
	rules []compiledRule

	// Debug, if non-nil, is called for every module that matches
	// no rule.
	Debug func(format string, args ...interface{})
}

// Compile compiles rules, in order, into a Classifier.
func Compile(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		typ, label := splitPattern(r.Pattern)
		typRe, err := compileGlob(typ)
		if err != nil {
			return nil, &PatternError{r.Pattern, err}
		}
		labelRe, err := compileGlob(label)
		if err != nil {
			return nil, &PatternError{r.Pattern, err}
		}
		c.rules = append(c.rules, compiledRule{typRe, labelRe, r.Package})
	}
	return c, nil
}

// splitPattern splits a rule pattern into its type and label globs
// on the first separator. A pattern without a separator only
// constrains the label. Spaces are part of the globs.
func splitPattern(pattern string) (typ, label string) {
	if i := strings.Index(pattern, Sep); i >= 0 {
		typ, label = pattern[:i], pattern[i+1:]
	} else {
		label = pattern
	}
	return typ, label
}

// compileGlob translates a shell-style glob into a regexp that must
// match the whole field. "?" matches one character and "*" any run
// of characters; other text is regexp syntax. An empty glob compiles
// to nil, which matches anything.
func compileGlob(glob string) (*regexp.Regexp, error) {
	if glob == "" {
		return nil, nil
	}
	expr := strings.ReplaceAll(glob, "?", ".")
	expr = strings.ReplaceAll(expr, "*", ".*")
	return regexp.Compile("^(?:" + expr + ")$")
}

// Len returns the number of rules in c.
func (c *Classifier) Len() int {
	return len(c.rules)
}

// Match returns the package of the first rule matching a module with
// the given type and label, and whether any rule matched.
func (c *Classifier) Match(typ, label string) (string, bool) {
	for _, r := range c.rules {
		if (r.typ == nil || r.typ.MatchString(typ)) && (r.label == nil || r.label.MatchString(label)) {
			return r.pkg, true
		}
	}
	return "", false
}

// A Classified is a module annotated with its package.
type Classified struct {
	*modfmt.Module

	// Package is the package path the module was assigned to.
	Package string

	// Expanded is "package|type|label".
	Expanded string
}

// Path returns the segments of c's expanded path.
func (c Classified) Path() []string {
	return strings.Split(c.Expanded, Sep)
}

// TopPackage returns the first segment of c's package path.
func (c Classified) TopPackage() string {
	if i := strings.Index(c.Package, Sep); i >= 0 {
		return c.Package[:i]
	}
	return c.Package
}

// Classify assigns each module to a package. Modules are not
// modified, so Classify may be called repeatedly with different
// Classifiers.
func (c *Classifier) Classify(mods []*modfmt.Module) []Classified {
	out := make([]Classified, len(mods))
	for i, m := range mods {
		pkg, ok := c.Match(m.Type, m.Label)
		if !ok {
			if c.Debug != nil {
				c.Debug("no rule matches module %s\n", m.Key())
			}
			pkg = Unassigned
		}
		out[i] = Classified{
			Module:   m,
			Package:  pkg,
			Expanded: strings.Join([]string{pkg, m.Type, m.Label}, Sep),
		}
	}
	return out
}

// Unmatched returns the modules that match no rule, in order.
func (c *Classifier) Unmatched(mods []*modfmt.Module) []*modfmt.Module {
	var out []*modfmt.Module
	for _, m := range mods {
		if _, ok := c.Match(m.Type, m.Label); !ok {
			out = append(out, m)
		}
	}
	return out
}
