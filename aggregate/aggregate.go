// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggregate groups getput results by test configuration and
// summarizes every metric of each group.
//
// Results enter a Collection either as parsed getput records or as
// benchmark rounds from a round file. A round holds the results of
// every load-generating host for one execution of the benchmark; the
// Collection merges the hosts of a round into per-cluster samples and
// discards rounds whose hosts disagree too much on how long the round
// took.
//
// Collection.Summarize turns the collected samples into a Result,
// which is read-only.
package aggregate

import (
	"fmt"

	"github.com/clusterbench/perf/benchmath"
	"github.com/clusterbench/perf/getput"
)

// A Metric names one measured quantity of a group.
type Metric string

const (
	Bandwidth Metric = "bw"
	IOPS      Metric = "iops"
	Latency   Metric = "lat"
	Median    Metric = "median"
	LatencyLo Metric = "lat_lo"
	LatencyHi Metric = "lat_hi"
	CPU       Metric = "cpu"
	Errors    Metric = "errs"
)

// Metrics lists every Metric in display order.
var Metrics = []Metric{Bandwidth, IOPS, Latency, Median, LatencyLo, LatencyHi, CPU, Errors}

// latencyMetric reports whether m is measured in getput's latency
// unit and must be scaled by Config.LatencyScale.
func latencyMetric(m Metric) bool {
	switch m {
	case Latency, Median, LatencyLo, LatencyHi:
		return true
	}
	return false
}

// A Config configures summarizing and round filtering.
//
// This should be initialized from DefaultConfig.
type Config struct {
	// Confidence is the confidence level of summary intervals.
	Confidence float64

	// SkewRatio is the largest acceptable ratio between the
	// slowest and the fastest host's elapsed time in a round.
	// Rounds over it are discarded.
	SkewRatio float64

	// LatencyScale converts getput latencies (seconds) into the
	// reported unit.
	LatencyScale float64

	// Estimator computes confidence intervals. If nil,
	// benchmath.StudentT is used.
	Estimator benchmath.Estimator
}

// DefaultConfig reports latencies in milliseconds with 95%
// t-distribution confidence intervals and discards rounds whose
// slowest host took more than 1.5 times as long as the fastest.
var DefaultConfig = Config{
	Confidence:   0.95,
	SkewRatio:    1.5,
	LatencyScale: 1000,
	Estimator:    benchmath.StudentT,
}

// A Group maps each metric of an aggregation group to its summary.
type Group map[Metric]*benchmath.Summary

// A Result is the summarized content of a Collection.
type Result struct {
	// NodeCount is the number of load-generating nodes the
	// results were collected from.
	NodeCount int

	// Keys lists the groups in display order.
	Keys []Key

	Groups map[Key]Group

	// Samples is the number of host results that were kept and
	// Skipped the number discarded from skewed rounds.
	Samples, Skipped int
}

// Summary returns the summary of metric m in group k, or nil if there
// is none.
func (r *Result) Summary(k Key, m Metric) *benchmath.Summary {
	return r.Groups[k][m]
}

// A Collection accumulates samples by Key. The zero Collection is
// empty and ready to use.
type Collection struct {
	groups map[Key]map[Metric][]float64
	hosts  map[string]bool

	// nodes is the node count set by AddRecords.
	nodes int

	samples, skipped, unmatched int
}

// Add appends one sample of every metric to group k, creating the
// group if needed.
func (c *Collection) Add(k Key, v getput.Values) {
	if c.groups == nil {
		c.groups = make(map[Key]map[Metric][]float64)
	}
	g, ok := c.groups[k]
	if !ok {
		g = make(map[Metric][]float64)
		c.groups[k] = g
	}
	g[Bandwidth] = append(g[Bandwidth], v.Bandwidth)
	g[IOPS] = append(g[IOPS], v.IOPS)
	g[Latency] = append(g[Latency], v.Latency)
	g[Median] = append(g[Median], v.Median)
	g[LatencyLo] = append(g[LatencyLo], v.Range[0])
	g[LatencyHi] = append(g[LatencyHi], v.Range[1])
	g[CPU] = append(g[CPU], v.CPU)
	g[Errors] = append(g[Errors], float64(v.Errors))
}

// AddRecords adds parsed getput records that were produced by a
// benchmark spanning nodes load-generating nodes. Each record's
// process count is divided by nodes, so that results of clusters with
// different sizes group together per node.
func (c *Collection) AddRecords(recs []*getput.Record, nodes int) error {
	if nodes < 1 {
		return fmt.Errorf("node count must be positive, got %d", nodes)
	}
	if c.nodes != 0 && c.nodes != nodes {
		return fmt.Errorf("records from %d nodes added to a collection of %d nodes", nodes, c.nodes)
	}
	c.nodes = nodes
	for _, rec := range recs {
		c.Add(KeyOf(rec.Key(), nodes), rec.Values())
		c.samples++
	}
	return nil
}

// FromRecords returns a new Collection holding recs, collected on
// nodes load-generating nodes.
func FromRecords(recs []*getput.Record, nodes int) (*Collection, error) {
	c := new(Collection)
	if err := c.AddRecords(recs, nodes); err != nil {
		return nil, err
	}
	return c, nil
}

// Skipped returns the number of host results discarded from skewed
// rounds so far.
func (c *Collection) Skipped() int {
	return c.skipped
}

// Unmatched returns the number of host results dropped because other
// hosts of the same round reported fewer results for the same key.
func (c *Collection) Unmatched() int {
	return c.unmatched
}

// NodeCount returns the number of distinct hosts seen in rounds, or
// the node count given to AddRecords.
func (c *Collection) NodeCount() int {
	if len(c.hosts) > 0 {
		return len(c.hosts)
	}
	return c.nodes
}

// Summarize computes the summary of every metric of every group. It
// fails if a group's size token is not a valid size.
func (c *Collection) Summarize(cfg Config) (*Result, error) {
	res := &Result{
		NodeCount: c.NodeCount(),
		Groups:    make(map[Key]Group, len(c.groups)),
		Samples:   c.samples,
		Skipped:   c.skipped,
	}
	for k, samples := range c.groups {
		res.Keys = append(res.Keys, k)
		g := make(Group, len(samples))
		for m, vals := range samples {
			if latencyMetric(m) && cfg.LatencyScale != 0 {
				scaled := make([]float64, len(vals))
				for i, v := range vals {
					scaled[i] = v * cfg.LatencyScale
				}
				vals = scaled
			}
			g[m] = benchmath.Summarize(vals, cfg.Confidence, cfg.Estimator)
		}
		res.Groups[k] = g
	}
	if err := SortKeys(res.Keys); err != nil {
		return nil, err
	}
	return res, nil
}
