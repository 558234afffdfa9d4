// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getput

import (
	"reflect"
	"strings"
	"testing"
)

const sampleLine = "  1   get   4   2   64k   10:00:01   10:00:31   120.5   1930   62.3   62.3   0   0.0162   0.015   0.008-0.04   23.5   Ok"

func TestParse(t *testing.T) {
	got, ok := Parse(sampleLine)
	if !ok {
		t.Fatalf("Parse(%q) did not match", sampleLine)
	}
	want := &Record{
		Rank: 1, Test: "get", Clients: 4, Procs: 2, Size: "64k",
		Start: "10:00:01", End: "10:00:31",
		Bandwidth: 120.5, IOs: 1930, IOPS: 62.3, OpsPerSec: 62.3, Errors: 0,
		Latency: 0.0162, Median: 0.015, Range: LatencyRange{0.008, 0.04},
		CPU: 23.5, Status: "Ok",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse:\ngot  %+v\nwant %+v", got, want)
	}
	if k := got.Key(); k != (Key{"get", "64k", 2}) {
		t.Errorf("Key() = %+v", k)
	}
}

func TestParseNoMatch(t *testing.T) {
	for _, line := range []string{
		"",
		"Rank Test Clts Proc  OSize  Start     End       MB/Sec   Ops   Ops/Sec  Errs Latency  Median   LatRange   %CPU  Comp",
		"-----------------------------------------------------------------------------",
		// Size without unit.
		"1 get 4 2 64 10:00:01 10:00:31 120.5 1930 62.3 62.3 0 0.0162 0.015 0.008-0.04 23.5 Ok",
		// Missing latency range.
		"1 get 4 2 64k 10:00:01 10:00:31 120.5 1930 62.3 62.3 0 0.0162 0.015 23.5 Ok",
		// Trailing garbage.
		sampleLine + " extra!",
		// Integer overflow in the rank column.
		"99999999999999999999999 get 4 2 64k 10:00:01 10:00:31 120.5 1930 62.3 62.3 0 0.0162 0.015 0.008-0.04 23.5 Ok",
	} {
		if r, ok := Parse(line); ok {
			t.Errorf("Parse(%q) matched: %+v", line, r)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	for _, line := range []string{
		sampleLine,
		"12 put 10 16 4m 23:59:58 00:00:28 1024 733 24.43 24.4 3 0.65 0.6 0.1-2.75 88 Ok",
		"3 del 1 1 1g 01:02:03 01:02:04 0.0 10 10.0 10. 0 1.000001 1 0-1 0 failed",
	} {
		r1, ok := Parse(line)
		if !ok {
			t.Fatalf("Parse(%q) did not match", line)
		}
		s := r1.String()
		r2, ok := Parse(s)
		if !ok {
			t.Fatalf("Parse(String()) did not match %q", s)
		}
		if !reflect.DeepEqual(r1, r2) {
			t.Errorf("round trip of %q via %q:\ngot  %+v\nwant %+v", line, s, r2, r1)
		}
	}
}

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		"Rank Test Clts Proc  OSize  Start     End       MB/Sec   Ops   Ops/Sec  Errs Latency  Median   LatRange   %CPU  Comp",
		sampleLine,
		"warning: something happened",
		"2 put 4 2 64k 10:00:31 10:01:01 100 1600 53.3 53.3 1 0.02 0.019 0.01-0.05 20 Ok",
		"",
	}, "\n")
	r := NewReader(strings.NewReader(input), "test")
	var tests []string
	var lines []int
	for r.Scan() {
		tests = append(tests, r.Record().Test)
		lines = append(lines, r.Line())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if want := []string{"get", "put"}; !reflect.DeepEqual(tests, want) {
		t.Errorf("tests = %v, want %v", tests, want)
	}
	if want := []int{2, 4}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}
	if r.Scan() {
		t.Errorf("Scan after EOF returned true")
	}
}
