// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// A SyntaxError reports a malformed report file.
type SyntaxError struct {
	FileName string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
}

// Read reads a report from r. fileName is used in error messages.
func Read(r io.Reader, fileName string) (*Report, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// Check for the "modules" list before decoding so a file in
	// another shape (such as a legacy tree) fails clearly.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &SyntaxError{fileName, err.Error()}
	}
	mods, ok := top["modules"]
	if !ok || len(bytes.TrimSpace(mods)) == 0 || bytes.TrimSpace(mods)[0] != '[' {
		return nil, &SyntaxError{fileName, "does not contain a top-level \"modules\" list"}
	}

	rep := new(Report)
	if err := json.Unmarshal(data, rep); err != nil {
		return nil, &SyntaxError{fileName, err.Error()}
	}
	return rep, nil
}

// ReadFile reads the report stored in the named file.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// ReadFiles reads each named report in order.
func ReadFiles(paths []string) ([]*Report, error) {
	reps := make([]*Report, 0, len(paths))
	for _, path := range paths {
		rep, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// SplitList splits a comma-separated list of file names, dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Write writes rep to w as indented JSON followed by a newline.
func Write(w io.Writer, rep *Report, indent string) error {
	out := *rep
	if out.Modules == nil {
		out.Modules = []*Module{}
	}
	data, err := json.MarshalIndent(&out, "", indent)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteFile writes rep to the named file, replacing its contents.
func WriteFile(path string, rep *Report, indent string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rep, indent); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
