// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modfmt

import (
	"fmt"
	"strings"
)

// A Metric names one of the quantities measured for every module.
type Metric string

const (
	MemAlloc      Metric = "mem_alloc"
	MemFree       Metric = "mem_free"
	TimeReal      Metric = "time_real"
	TimeThread    Metric = "time_thread"
	TimeRealAbs   Metric = "time_real_abs"
	TimeThreadAbs Metric = "time_thread_abs"
)

// Metrics lists the known metrics in their canonical order.
var Metrics = []Metric{MemAlloc, MemFree, TimeReal, TimeThread, TimeRealAbs, TimeThreadAbs}

// ParseMetric returns the Metric named by s.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	names := make([]string, len(Metrics))
	for i, m := range Metrics {
		names[i] = string(m)
	}
	return "", fmt.Errorf("unknown metric %q (want one of %s)", s, strings.Join(names, ", "))
}

// IsMemory reports whether m measures memory rather than time.
func (m Metric) IsMemory() bool {
	return m == MemAlloc || m == MemFree
}

// Unit returns the unit the framework reports m in.
func (m Metric) Unit() string {
	if m.IsMemory() {
		return "kB"
	}
	return "ms"
}

func (m Metric) String() string {
	return string(m)
}
