// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/clusterbench/perf/benchunit"
	"github.com/clusterbench/perf/getput"
)

func TestSortKeys(t *testing.T) {
	keys := []Key{
		{"put", "4k", 1},
		{"get", "1m", 1},
		{"get", "64k", 8},
		{"get", "64k", 2},
		{"get", "4k", 16},
		{"del", "1g", 1},
	}
	if err := SortKeys(keys); err != nil {
		t.Fatal(err)
	}
	want := []Key{
		{"del", "1g", 1},
		{"get", "4k", 16},
		{"get", "64k", 2},
		{"get", "64k", 8},
		{"get", "1m", 1},
		{"put", "4k", 1},
	}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("got  %v\nwant %v", keys, want)
	}

	bad := []Key{{"get", "64k", 1}, {"get", "64x", 1}}
	if err := SortKeys(bad); !errors.Is(err, benchunit.ErrInvalidSize) {
		t.Errorf("SortKeys with bad size: got %v, want ErrInvalidSize", err)
	}
}

func TestUnionKeys(t *testing.T) {
	a := &Result{Keys: []Key{{"get", "64k", 1}, {"put", "4k", 1}}}
	b := &Result{Keys: []Key{{"get", "4k", 1}, {"get", "64k", 1}}}
	got, err := UnionKeys(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []Key{{"get", "4k", 1}, {"get", "64k", 1}, {"put", "4k", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func parseRecords(t *testing.T, lines ...string) []*getput.Record {
	t.Helper()
	var recs []*getput.Record
	for _, l := range lines {
		r, ok := getput.Parse(l)
		if !ok {
			t.Fatalf("bad test line %q", l)
		}
		recs = append(recs, r)
	}
	return recs
}

func TestAddRecords(t *testing.T) {
	recs := parseRecords(t,
		"1 get 4 8 64k 10:00:01 10:00:31 120 1930 60 60 0 0.016 0.015 0.008-0.04 23 Ok",
		"2 get 4 8 64k 10:00:31 10:01:01 121 1940 70 70 2 0.018 0.015 0.008-0.04 23 Ok",
		"3 get 4 4 64k 10:01:01 10:01:31 122 1950 80 80 0 0.020 0.015 0.008-0.04 23 Ok",
	)
	var c Collection
	if err := c.AddRecords(recs, 4); err != nil {
		t.Fatal(err)
	}
	if err := c.AddRecords(recs, 2); err == nil {
		t.Errorf("AddRecords with a different node count: want error")
	}
	if err := (&Collection{}).AddRecords(recs, 0); err == nil {
		t.Errorf("AddRecords with zero nodes: want error")
	}
	res, err := c.Summarize(DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if want := []Key{{"get", "64k", 1}, {"get", "64k", 2}}; !reflect.DeepEqual(res.Keys, want) {
		t.Fatalf("keys = %v, want %v", res.Keys, want)
	}
	if res.NodeCount != 4 || res.Samples != 3 {
		t.Errorf("NodeCount, Samples = %d, %d, want 4, 3", res.NodeCount, res.Samples)
	}
	iops := res.Summary(Key{"get", "64k", 2}, IOPS)
	if iops.N != 2 || iops.Average != 65 {
		t.Errorf("iops = %+v", iops)
	}
	lat := res.Summary(Key{"get", "64k", 2}, Latency)
	if math.Abs(lat.Average-17) > 1e-9 {
		t.Errorf("latency average = %v ms, want 17", lat.Average)
	}
	if errs := res.Summary(Key{"get", "64k", 2}, Errors); errs.Average != 1 {
		t.Errorf("errors average = %v, want 1", errs.Average)
	}
	if res.Summary(Key{"put", "64k", 2}, IOPS) != nil {
		t.Errorf("summary of a missing key is not nil")
	}

	c2, err := FromRecords(recs, 4)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := c2.Summarize(DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res2.Keys, res.Keys) {
		t.Errorf("FromRecords keys = %v, want %v", res2.Keys, res.Keys)
	}
	if _, err := FromRecords(recs, 0); err == nil {
		t.Errorf("FromRecords with zero nodes: want error")
	}
}

func TestSummarizeBadSize(t *testing.T) {
	var c Collection
	c.Add(Key{"get", "lots", 1}, getput.Values{})
	if _, err := c.Summarize(DefaultConfig); !errors.Is(err, benchunit.ErrInvalidSize) {
		t.Errorf("got %v, want ErrInvalidSize", err)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	var c Collection
	res, err := c.Summarize(DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Keys) != 0 || res.NodeCount != 0 {
		t.Errorf("empty collection summarized as %+v", res)
	}
}

func values(iops float64, errs int, lat float64) getput.Values {
	return getput.Values{
		Bandwidth: iops / 16, IOPS: iops, Latency: lat, Median: lat,
		Range: [2]float64{lat / 2, lat * 2}, CPU: 10, Errors: errs,
	}
}

func TestAddRoundMerge(t *testing.T) {
	k := getput.Key{Test: "get", Size: "64k", Procs: 2}
	round := getput.Round{
		"a": {Elapsed: 30, Results: []getput.KeyResults{{Key: k, Values: []getput.Values{values(100, 1, 0.010), values(110, 0, 0.012)}}}},
		"b": {Elapsed: 32, Results: []getput.KeyResults{{Key: k, Values: []getput.Values{values(50, 2, 0.020), values(60, 0, 0.030), values(70, 0, 0.040)}}}},
	}
	var c Collection
	if !c.AddRound(round, DefaultConfig) {
		t.Fatalf("round discarded")
	}
	if c.Skipped() != 0 || c.Unmatched() != 1 {
		t.Errorf("Skipped, Unmatched = %d, %d, want 0, 1", c.Skipped(), c.Unmatched())
	}
	res, err := c.Summarize(DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if res.NodeCount != 2 || res.Samples != 4 {
		t.Errorf("NodeCount, Samples = %d, %d, want 2, 4", res.NodeCount, res.Samples)
	}
	key := Key{"get", "64k", 2}
	check := func(m Metric, want []float64) {
		t.Helper()
		s := res.Summary(key, m)
		if len(s.Raw) != len(want) {
			t.Fatalf("%s raw = %v, want %v", m, s.Raw, want)
		}
		for i := range want {
			if math.Abs(s.Raw[i]-want[i]) > 1e-9 {
				t.Errorf("%s raw = %v, want %v", m, s.Raw, want)
				return
			}
		}
	}
	// Summed per round sample.
	check(IOPS, []float64{150, 170})
	check(Errors, []float64{0, 3})
	// Averaged, in milliseconds.
	check(Latency, []float64{15, 21})
	check(LatencyLo, []float64{5, 6})
	check(LatencyHi, []float64{40, 60})
	check(CPU, []float64{10, 10})
}

func TestAddRoundSkew(t *testing.T) {
	k := getput.Key{Test: "put", Size: "4k", Procs: 1}
	rv := []getput.KeyResults{{Key: k, Values: []getput.Values{values(100, 0, 0.01), values(100, 0, 0.01)}}}
	var c Collection
	cfg := DefaultConfig

	// 46 > 1.5 * 30.
	skewed := getput.Round{"a": {Elapsed: 30, Results: rv}, "b": {Elapsed: 46, Results: rv}, "c": {Elapsed: 31, Results: rv}}
	if c.AddRound(skewed, cfg) {
		t.Errorf("skewed round kept")
	}
	if c.Skipped() != 6 {
		t.Errorf("Skipped = %d, want 6", c.Skipped())
	}

	// Exactly at the ratio is kept.
	ok := getput.Round{"a": {Elapsed: 30, Results: rv}, "b": {Elapsed: 45, Results: rv}}
	if !c.AddRound(ok, cfg) {
		t.Errorf("round at the skew ratio discarded")
	}

	cfg.SkewRatio = 1.2
	if c.AddRound(ok, cfg) {
		t.Errorf("round kept with a tighter skew ratio")
	}
	if c.Skipped() != 10 {
		t.Errorf("Skipped = %d, want 10", c.Skipped())
	}

	res, err := c.Summarize(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Hosts of discarded rounds still count.
	if res.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", res.NodeCount)
	}
	if res.Skipped != 10 {
		t.Errorf("Result.Skipped = %d, want 10", res.Skipped)
	}
	if s := res.Summary(Key{"put", "4k", 1}, IOPS); s.N != 2 {
		t.Errorf("kept samples = %d, want 2", s.N)
	}
}

func TestReadRounds(t *testing.T) {
	input := strings.Join([]string{
		"---------------------------------------------------------------------------",
		`{"h1": [30, [[["get", "64k", 1], [{"bw": 1, "iops": 10, "lat": 0.01, "median": 0.01, "lat_range": [0.001, 0.1], "cpu": 5, "errs": 0}]]]], "h2": [30, [[["get", "64k", 1], [{"bw": 1, "iops": 20, "lat": 0.03, "median": 0.01, "lat_range": [0.002, 0.2], "cpu": 5, "errs": 1}]]]]}`,
		"Failed: timed out",
		"---------------------------------------------------------------------------",
		`{"h1": [10, [[["get", "64k", 1], [{"bw": 1, "iops": 99, "lat": 0.01, "median": 0.01, "lat_range": [0.001, 0.1], "cpu": 5, "errs": 0}]]]], "h3": [30, [[["get", "64k", 1], [{"bw": 1, "iops": 99, "lat": 0.01, "median": 0.01, "lat_range": [0.001, 0.1], "cpu": 5, "errs": 0}]]]]}`,
	}, "\n")
	var c Collection
	if err := c.ReadRounds(strings.NewReader(input), "rounds", DefaultConfig); err != nil {
		t.Fatal(err)
	}
	res, err := c.Summarize(DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if res.NodeCount != 3 || res.Skipped != 2 || res.Samples != 2 {
		t.Errorf("NodeCount, Skipped, Samples = %d, %d, %d, want 3, 2, 2", res.NodeCount, res.Skipped, res.Samples)
	}
	s := res.Summary(Key{"get", "64k", 1}, IOPS)
	if s.N != 1 || s.Average != 30 {
		t.Errorf("iops = %+v, want one sample of 30", s)
	}

	err = c.ReadRounds(strings.NewReader("{\"h\": [1, 2, 3]}\n"), "bad", DefaultConfig)
	if err == nil || !strings.HasPrefix(err.Error(), "bad:1: ") {
		t.Errorf("malformed round: got error %v", err)
	}
}
