// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modfmt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrResourceMismatch is returned when merging reports that carry
// different metrics.
var ErrResourceMismatch = errors.New("input files describe different metrics")

// Merge adds the measurements in src to dst.
//
// The totals of the two reports are summed, including their event
// counts. Modules present in both reports, identified by (type,
// label), have their metrics and events summed; modules only in src
// are appended to dst unchanged. Only the metrics listed in the
// reports' resources are summed.
//
// If warn is non-nil, it is called for non-fatal inconsistencies.
func Merge(dst, src *Report, warn func(format string, args ...interface{})) error {
	if !dst.Resources.Equal(src.Resources) {
		return fmt.Errorf("%w: [%s] and [%s]", ErrResourceMismatch,
			strings.Join(dst.Resources.Names(), " "), strings.Join(src.Resources.Names(), " "))
	}
	metrics := dst.Resources.Names()

	switch {
	case src.Total == nil:
	case dst.Total == nil:
		dst.Total = src.Total.Clone()
	default:
		if dst.Total.Label != src.Total.Label && warn != nil {
			warn("input files describe different process names: %q and %q\n", dst.Total.Label, src.Total.Label)
		}
		mergeInto(metrics, src.Total, dst.Total)
	}

	index := make(map[string]*Module, len(dst.Modules))
	for _, m := range dst.Modules {
		index[m.Key()] = m
	}
	for _, m := range src.Modules {
		if have, ok := index[m.Key()]; ok {
			mergeInto(metrics, m, have)
			continue
		}
		m = m.Clone()
		index[m.Key()] = m
		dst.Modules = append(dst.Modules, m)
	}
	return nil
}

func mergeInto(metrics []string, src, dst *Module) {
	dst.Events += src.Events
	dst.HasEvents = dst.HasEvents || src.HasEvents
	for _, name := range metrics {
		if v, ok := src.Values[name]; ok {
			dst.Set(name, dst.Values[name]+v)
		}
	}
}

// MergeAll merges reps, in order, into a new report. The inputs are
// not modified.
func MergeAll(reps []*Report, warn func(format string, args ...interface{})) (*Report, error) {
	if len(reps) == 0 {
		return nil, errors.New("no reports to merge")
	}
	out := reps[0].Clone()
	for _, rep := range reps[1:] {
		if err := Merge(out, rep, warn); err != nil {
			return nil, err
		}
	}
	return out, nil
}
