// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package legacy converts older performance report formats into
// modfmt reports.
//
// Two formats are supported: the fixed-width "FastReport" job summary
// printed at the end of a framework log, and the nested package tree
// JSON consumed by the circles viewer.
package legacy

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"circles/modfmt"
)

// Banner is the line that introduces a FastReport job summary.
const Banner = "FastReport ---------------------------- Job Summary ----------------------------"

const (
	rowPrefix    = "FastReport"
	processLabel = "process "
	totalLabel   = "total"
	otherLabel   = "other"
)

// A SyntaxError reports a malformed line of a legacy report.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// Measurement holds the columns of one FastReport row. Times are in
// milliseconds and memory in kilobytes. The Avg columns are averages
// over all events; the Run columns are averages over the events in
// which the module ran.
type Measurement struct {
	CPUAvg, CPURun     float64
	RealAvg, RealRun   float64
	AllocAvg, AllocRun float64
	FreeAvg, FreeRun   float64
}

func (m *Measurement) add(o Measurement) {
	m.CPUAvg += o.CPUAvg
	m.CPURun += o.CPURun
	m.RealAvg += o.RealAvg
	m.RealRun += o.RealRun
	m.AllocAvg += o.AllocAvg
	m.AllocRun += o.AllocRun
	m.FreeAvg += o.FreeAvg
	m.FreeRun += o.FreeRun
}

// Column byte ranges of a FastReport row, after trimming the line.
var columns = [8][2]int{
	{10, 22}, {25, 37}, // CPU time
	{40, 52}, {55, 67}, // real time
	{70, 82}, {85, 97}, // allocated
	{100, 112}, {115, 127}, // deallocated
}

const labelColumn = 130

// A JobSummary accumulates the FastReport summaries of one or more
// logs. Rows with the same label are summed, across and within logs.
type JobSummary struct {
	// Files is the number of summaries read.
	Files int

	// Labels lists row labels in order of first appearance.
	Labels []string
	Rows   map[string]*Measurement
}

// Read adds the job summary found in r to s. Lines before the Banner
// are ignored, as is the header line following it. The summary ends
// at the first blank line. It is an error if r has no summary.
func (s *JobSummary) Read(r io.Reader, fileName string) error {
	if s.Rows == nil {
		s.Rows = make(map[string]*Measurement)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024)
	line, reading, header, found := 0, false, false, false
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if !reading {
			if text == Banner {
				reading, found = true, true
			}
			continue
		}
		if text == "" {
			break
		}
		if !header {
			header = true
			continue
		}
		label, m, err := parseRow(text)
		if err != nil {
			return &SyntaxError{fileName, line, err.Error()}
		}
		if prev, ok := s.Rows[label]; ok {
			prev.add(m)
		} else {
			s.Labels = append(s.Labels, label)
			s.Rows[label] = &m
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if !found {
		return &SyntaxError{fileName, line, "no FastReport job summary"}
	}
	s.Files++
	return nil
}

func parseRow(text string) (string, Measurement, error) {
	var m Measurement
	if !strings.HasPrefix(text, rowPrefix) {
		return "", m, fmt.Errorf("row does not start with %q", rowPrefix)
	}
	field := func(lo, hi int) string {
		if lo >= len(text) {
			return ""
		}
		if hi > len(text) {
			hi = len(text)
		}
		return strings.TrimSpace(text[lo:hi])
	}
	dst := [8]*float64{
		&m.CPUAvg, &m.CPURun, &m.RealAvg, &m.RealRun,
		&m.AllocAvg, &m.AllocRun, &m.FreeAvg, &m.FreeRun,
	}
	for i, c := range columns {
		s := field(c[0], c[1])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", m, fmt.Errorf("bad value %q in column %d", s, i+1)
		}
		*dst[i] = v
	}
	label := field(labelColumn, len(text))
	if label == "" {
		return "", m, fmt.Errorf("missing module label")
	}
	return label, m, nil
}

// Title returns the process name from the summary's "process NAME"
// row. If there are several process rows, or none, it returns "Total".
func (s *JobSummary) Title() string {
	name := ""
	for _, l := range s.Labels {
		if strings.HasPrefix(l, processLabel) {
			if name != "" {
				return "Total"
			}
			name = strings.TrimPrefix(l, processLabel)
		}
	}
	if name == "" {
		return "Total"
	}
	return name
}

// Report converts s into a report with one event, where each value is
// the per-event average across the summaries read. types maps module
// labels to module types; modules with no known type get type "other"
// and are passed to warn, if it is non-nil.
//
// If the summary has a "total" row, it becomes the report total and
// the difference between it and the sum over all modules becomes a
// module labelled "other". The residual covers CPU time, real time
// and allocated memory; the residual of freed memory is recorded as 0.
func (s *JobSummary) Report(types map[string]string, warn func(format string, args ...interface{})) *modfmt.Report {
	n := float64(s.Files)
	if n <= 0 {
		n = 1
	}
	values := func(m *Measurement) map[string]float64 {
		return map[string]float64{
			string(modfmt.TimeThread): m.CPUAvg / n,
			string(modfmt.TimeReal):   m.RealAvg / n,
			string(modfmt.MemAlloc):   m.AllocAvg / n,
			string(modfmt.MemFree):    m.FreeAvg / n,
		}
	}

	rep := &modfmt.Report{
		Resources: modfmt.Resources{
			{Name: string(modfmt.TimeThread), Description: "cpu time"},
			{Name: string(modfmt.TimeReal), Description: "real time"},
			{Name: string(modfmt.MemAlloc), Description: "allocated memory"},
			{Name: string(modfmt.MemFree), Description: "deallocated memory"},
		},
		Total:   &modfmt.Module{Type: "Job", Label: s.Title(), Events: 1, HasEvents: true},
		Modules: []*modfmt.Module{},
	}

	var sum Measurement
	for _, l := range s.Labels {
		if l == totalLabel || strings.HasPrefix(l, processLabel) {
			continue
		}
		m := s.Rows[l]
		sum.add(*m)
		typ, ok := types[l]
		if !ok {
			if warn != nil {
				warn("module %s does not have a known type\n", l)
			}
			typ = otherLabel
		}
		rep.Modules = append(rep.Modules, &modfmt.Module{Type: typ, Label: l, Values: values(m)})
	}

	total, ok := s.Rows[totalLabel]
	if !ok {
		rep.Total.Values = values(&sum)
		return rep
	}
	rep.Total.Values = values(total)
	other := Measurement{
		CPUAvg:   total.CPUAvg - sum.CPUAvg,
		RealAvg:  total.RealAvg - sum.RealAvg,
		AllocAvg: total.AllocAvg - sum.AllocAvg,
	}
	rep.Modules = append(rep.Modules, &modfmt.Module{Type: otherLabel, Label: otherLabel, Values: values(&other)})
	return rep
}

var moduleDecl = regexp.MustCompile(`^process.([A-Za-z0-9_]+) *= *cms\.(untracked\.)?((Path|EndPath) *\(|(Source|EDAnalyzer|EDProducer|EDFilter|OutputModule) *\( *["']([A-Za-z0-9_]+)["'])`)

// LoadModuleTypes extracts module types from a framework
// configuration dump. A declaration such as
//
//	process.hltFoo = cms.EDProducer("FooProducer", ...)
//
// maps label hltFoo to type FooProducer; paths map to "Path" or
// "EndPath". The implicit TriggerResults module is always present.
func LoadModuleTypes(r io.Reader) (map[string]string, error) {
	types := map[string]string{"TriggerResults": "TriggerResults"}
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024)
	for sc.Scan() {
		m := moduleDecl.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		if m[4] != "" {
			types[m[1]] = m[4]
		} else {
			types[m[1]] = m[6]
		}
	}
	return types, sc.Err()
}
