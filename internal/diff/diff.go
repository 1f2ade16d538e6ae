// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports differences between expected and actual test
// output.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Diff returns a unified diff of old and new, labelled with oldName
// and newName. It returns "" if they are equal. When no diff command
// is available it lists the first differing line instead.
func Diff(oldName string, old []byte, newName string, new []byte) string {
	if bytes.Equal(old, new) {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return firstDifference(oldName, old, newName, new)
	}

	dir, err := os.MkdirTemp("", "circles-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	f1 := filepath.Join(dir, "old")
	f2 := filepath.Join(dir, "new")
	if err := os.WriteFile(f1, old, 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(f2, new, 0666); err != nil {
		return err.Error()
	}

	data, err := exec.Command(cmd, "-u", "--label", oldName, "--label", newName, f1, f2).CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the inputs differ.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

func firstDifference(oldName string, old []byte, newName string, new []byte) string {
	ol := strings.Split(string(old), "\n")
	nl := strings.Split(string(new), "\n")
	for i := 0; i < len(ol) || i < len(nl); i++ {
		var o, n string
		if i < len(ol) {
			o = ol[i]
		}
		if i < len(nl) {
			n = nl[i]
		}
		if o != n || i >= len(ol) || i >= len(nl) {
			return fmt.Sprintf("line %d:\n%s: %q\n%s: %q\n", i+1, oldName, o, newName, n)
		}
	}
	return ""
}
