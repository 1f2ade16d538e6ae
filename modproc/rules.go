// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modproc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Rule assigns the modules matching Pattern to Package.
//
// Pattern is either "TypeGlob|LabelGlob" or just "LabelGlob". Package
// is a package path whose segments are separated by "|".
//
// Each glob must match its whole field. A "|" after the first one is
// regexp alternation inside the label glob, so "T|foo|bar" matches
// labels "foo" and "bar" but not "fooX".
type Rule struct {
	Pattern string
	Package string
}

// LoadRules reads an ordered list of rules from the named grouping
// file. Files ending in ".yaml" or ".yml" are read as YAML, anything
// else as JSON. In both cases the file holds a single mapping from
// patterns to packages and the order of its entries is preserved. A
// pattern given twice keeps its first position and its last package.
func LoadRules(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadRulesYAML(f, path)
	}
	return ReadRules(f, path)
}

// ReadRules reads an ordered JSON object of rules from r.
// fileName is used in error messages.
func ReadRules(r io.Reader, fileName string) ([]Rule, error) {
	pairs, err := readOrderedJSON(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	rules := make([]Rule, len(pairs))
	for i, p := range pairs {
		rules[i] = Rule{p[0], p[1]}
	}
	return rules, nil
}

// ReadRulesYAML reads an ordered YAML mapping of rules from r.
func ReadRulesYAML(r io.Reader, fileName string) ([]Rule, error) {
	pairs, err := readOrderedYAML(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	rules := make([]Rule, len(pairs))
	for i, p := range pairs {
		rules[i] = Rule{p[0], p[1]}
	}
	return rules, nil
}

// orderedPairs is a mapping that remembers the order keys were first
// set in. Setting a key again replaces its value in place.
type orderedPairs struct {
	list  [][2]string
	index map[string]int
}

func (p *orderedPairs) set(key, val string) {
	if i, ok := p.index[key]; ok {
		p.list[i][1] = val
		return
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[key] = len(p.list)
	p.list = append(p.list, [2]string{key, val})
}

// readOrderedJSON decodes a JSON object of scalar values into its
// key/value pairs, in the order keys first appear. Non-string values
// are kept in their JSON text form.
func readOrderedJSON(r io.Reader) ([][2]string, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("want a JSON object, found %v", tok)
	}
	var pairs orderedPairs
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		var val string
		if err := json.Unmarshal(raw, &val); err != nil {
			val = string(bytes.TrimSpace(raw))
		}
		pairs.set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs.list, nil
}

// readOrderedYAML decodes a YAML mapping of scalar values into its
// key/value pairs, in the order keys first appear.
func readOrderedYAML(r io.Reader) ([][2]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: want a mapping", node.Line)
	}
	var pairs orderedPairs
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: value of %q is not a scalar", v.Line, k.Value)
		}
		pairs.set(k.Value, v.Value)
	}
	return pairs.list, nil
}

// WriteRules writes rules to w as an ordered, indented JSON object.
func WriteRules(w io.Writer, rules []Rule) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, r := range rules {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(r.Pattern)
		if err != nil {
			return err
		}
		v, err := json.Marshal(r.Package)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "\n  %s: %s", k, v)
	}
	if len(rules) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}
