// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modunit formats metric values with a human-friendly unit.
//
// Report values are recorded in milliseconds for time metrics and in
// kilobytes for memory metrics. A Scaler picks a larger or smaller
// unit so that values print with at least three significant digits.
package modunit

import (
	"fmt"
	"math"
	"strconv"

	"circles/modfmt"
)

// A Scaler converts values recorded in a metric's base unit to Unit.
type Scaler struct {
	Prec   int     // digits after the decimal point
	Factor float64 // base-unit value of one Unit
	Unit   string
}

// Format formats val, given in the base unit, followed by the unit.
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 24)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	if s.Unit != "" {
		buf = append(buf, ' ')
		buf = append(buf, s.Unit...)
	}
	return string(buf)
}

type unit struct {
	factor float64
	name   string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

func mkUnits(names []string, factors []float64) []unit {
	var units []unit
	for i, name := range names {
		f := factors[i]
		units = append(units, unit{f, name, 99.995 * f, 9.9995 * f, .99995 * f})
	}
	return units
}

var (
	timeUnits   = mkUnits([]string{"min", "s", "ms", "µs"}, []float64{60000, 1000, 1, 1e-3})
	memoryUnits = mkUnits([]string{"GB", "MB", "kB", "B"}, []float64{1e6, 1e3, 1, 1e-3})
)

// Scale formats val, a value of metric m, with at least three
// significant digits.
func Scale(val float64, m modfmt.Metric) string {
	return CommonScale([]float64{val}, m).Format(val)
}

// CommonScale returns a Scaler to apply to all of vals, chosen so
// that the non-zero value closest to zero keeps three significant
// digits.
func CommonScale(vals []float64, m modfmt.Metric) Scaler {
	units := timeUnits
	if m.IsMemory() {
		units = memoryUnits
	}

	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{2, 1, m.Unit()}
	}

	for _, u := range units {
		switch {
		case min >= u.t100:
			return Scaler{1, u.factor, u.name}
		case min >= u.t10:
			return Scaler{2, u.factor, u.name}
		case min >= u.t1:
			return Scaler{3, u.factor, u.name}
		}
	}

	// Below the smallest unit: add digits until three are
	// significant, up to a limit.
	u := units[len(units)-1]
	prec := 3
	for v := min / u.factor; v < 0.99995 && prec < 10; v *= 10 {
		prec++
	}
	return Scaler{prec, u.factor, u.name}
}

// Label returns the axis or column label for m scaled by s, such as
// "time_real [ms]".
func (s Scaler) Label(m modfmt.Metric) string {
	if s.Unit == "" {
		return string(m)
	}
	return fmt.Sprintf("%s [%s]", m, s.Unit)
}
