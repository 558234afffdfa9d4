// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report presents aggregated getput results as tables, either
// as absolute figures for one result set or as the percentage
// difference between two.
//
// A Table is built once by Absolute or Compare and can then be
// rendered as text, CSV or HTML.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/clusterbench/perf/aggregate"
)

// ErrNodeCountMismatch is returned (wrapped) by Compare when the two
// result sets were normalized by different node counts.
var ErrNodeCountMismatch = errors.New("node counts differ")

// A Table is a rendered report.
type Table struct {
	// Header holds the column titles.
	Header []string

	// Rows holds the data rows in display order.
	Rows []*Row

	// left is the number of leading left-aligned columns; the
	// others are right-aligned.
	left int
}

// A Row is one group of a report.
type Row struct {
	Key   aggregate.Key
	Cells []string
}

// groups splits t.Rows into runs of rows with the same test and size.
func (t *Table) groups() [][]*Row {
	var out [][]*Row
	for i, r := range t.Rows {
		if i == 0 || !t.Rows[i-1].Key.SamePrefix(r.Key) {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out
}

var absoluteHeader = []string{"test", "size", "nthreads", "iops ~ conf", "lat ms ~ conf", "err"}

// Absolute returns the absolute report of res: for each group, the
// mean IOPS and latency with their confidence interval half-widths and
// the mean error count. Thread counts are per-node process counts
// times res.NodeCount. Groups without a defined IOPS or latency
// summary are left out.
func Absolute(res *aggregate.Result) *Table {
	t := &Table{Header: absoluteHeader, left: 2}
	for _, k := range res.Keys {
		iops := res.Summary(k, aggregate.IOPS)
		lat := res.Summary(k, aggregate.Latency)
		if !iops.Defined() || !lat.Defined() {
			continue
		}
		errs := 0
		if e := res.Summary(k, aggregate.Errors); e.Defined() {
			errs = int(e.Average)
		}
		t.Rows = append(t.Rows, &Row{Key: k, Cells: []string{
			k.Test,
			k.Size,
			fmt.Sprint(k.Procs * res.NodeCount),
			fmt.Sprintf("%d ~ %4d", int(iops.Average), int(iops.Confidence)),
			fmt.Sprintf("%d ~ %4d", int(lat.Average), int(lat.Confidence)),
			fmt.Sprint(errs),
		}})
	}
	return t
}

var compareHeader = []string{"test", "size", "nthreads", "diff % iops1/iops2", "diff % lat1/lat2"}

// Compare returns the comparison report of res1 against res2: for
// every group present in both, the ratio of the mean IOPS and of the
// mean latency rendered as a signed percentage difference. Groups
// present in only one result set, or whose res2 mean is zero, are
// left out.
//
// Both result sets must have the same node count.
func Compare(res1, res2 *aggregate.Result) (*Table, error) {
	if res1.NodeCount != res2.NodeCount {
		return nil, fmt.Errorf("%w: %d and %d", ErrNodeCountMismatch, res1.NodeCount, res2.NodeCount)
	}
	keys, err := aggregate.UnionKeys(res1, res2)
	if err != nil {
		return nil, err
	}
	t := &Table{Header: compareHeader, left: 2}
	for _, k := range keys {
		iops, ok1 := ratio(res1, res2, k, aggregate.IOPS)
		lat, ok2 := ratio(res1, res2, k, aggregate.Latency)
		if !ok1 || !ok2 {
			continue
		}
		t.Rows = append(t.Rows, &Row{Key: k, Cells: []string{
			k.Test,
			k.Size,
			fmt.Sprint(k.Procs * res1.NodeCount),
			pctDiff(iops),
			pctDiff(lat),
		}})
	}
	return t, nil
}

// ratio returns the ratio of the means of metric m of group k in res1
// and res2. It reports false if either summary is missing or the
// ratio is not finite.
func ratio(res1, res2 *aggregate.Result, k aggregate.Key, m aggregate.Metric) (float64, bool) {
	s1, s2 := res1.Summary(k, m), res2.Summary(k, m)
	if !s1.Defined() || !s2.Defined() || s2.Average == 0 {
		return 0, false
	}
	r := s1.Average / s2.Average
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// pctDiff formats a ratio as a signed whole percentage difference
// from 1, such as "+100" for 2 or "-25" for 0.75.
func pctDiff(r float64) string {
	return fmt.Sprintf("%+d", int(math.Round((r-1)*100)))
}
