// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modproc classifies the modules of a resource report into
// user-defined packages and aggregates their measurements.
//
// The typical steps for processing a report are:
//
// 1. Load an ordered list of Rules from a grouping file with
// LoadRules and compile them with Compile.
//
// 2. Classify the report's modules. Each module is assigned the
// package of the first rule whose type glob matches the module's
// type and whose label glob matches its label, or Unassigned if no
// rule matches. The result carries the module's expanded path,
// "package|type|label".
//
// 3. Aggregate the classified modules at some depth of the expanded
// path, optionally restricted by a filter, and present the Groups
// sorted with SortGroups or arranged into a tree (see package
// modtree).
package modproc
