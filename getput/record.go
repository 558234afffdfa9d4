// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package getput parses the output of the getput object storage load
// generator.
//
// getput prints one result line per test as a fixed sequence of
// whitespace-separated columns:
//
//	rank test clients procs size start end bw ios iops ops/sec errs lat median lo-hi cpu status
//
// for example
//
//	1 get 4 2 64k 10:00:01 10:00:31 120.5 1930 62.3 62.3 0 0.0162 0.015 0.008-0.04 23.5 Ok
//
// Its output also contains headers and diagnostics; lines that do not
// match the full column grammar are not results and are skipped
// without error.
//
// The package also encodes and decodes round files, which hold the
// parsed results of one benchmark round from every load-generating
// host as a single JSON line.
package getput

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A Record is one parsed getput result line.
type Record struct {
	Rank    int
	Test    string // operation, such as "put", "get" or "del"
	Clients int
	Procs   int
	Size    string // object size token as printed, such as "64k"

	Start, End string // wall clock, HH:MM:SS

	Bandwidth float64
	IOs       int
	IOPS      float64
	OpsPerSec float64
	Errors    int

	// Latency and Median are in seconds.
	Latency float64
	Median  float64
	Range   LatencyRange

	CPU    float64
	Status string
}

// A LatencyRange is the minimum and maximum latency of a test, in
// seconds.
type LatencyRange struct {
	Lo, Hi float64
}

// A Field is one column of the getput line grammar.
type Field struct {
	Name    string
	Pattern string

	// set coerces the matched text and stores it in r.
	set func(r *Record, s string) error
	// get formats the field of r as it appears in a line.
	get func(r *Record) string
}

const floatPat = `\d+\.?\d*`

func intField(name, pat string, p func(r *Record) *int) Field {
	return Field{name, pat,
		func(r *Record, s string) (err error) {
			*p(r), err = strconv.Atoi(s)
			return
		},
		func(r *Record) string { return strconv.Itoa(*p(r)) },
	}
}

func floatField(name string, p func(r *Record) *float64) Field {
	return Field{name, floatPat,
		func(r *Record, s string) (err error) {
			*p(r), err = strconv.ParseFloat(s, 64)
			return
		},
		func(r *Record) string { return formatFloat(*p(r)) },
	}
}

func stringField(name, pat string, p func(r *Record) *string) Field {
	return Field{name, pat,
		func(r *Record, s string) error {
			*p(r) = s
			return nil
		},
		func(r *Record) string { return *p(r) },
	}
}

// Fields is the getput column grammar, in column order.
var Fields = []Field{
	intField("rank", `\d+`, func(r *Record) *int { return &r.Rank }),
	stringField("test", `\w+`, func(r *Record) *string { return &r.Test }),
	intField("clts", `\d+`, func(r *Record) *int { return &r.Clients }),
	intField("proc", `\d+`, func(r *Record) *int { return &r.Procs }),
	stringField("size", `\d+[kmg]`, func(r *Record) *string { return &r.Size }),
	stringField("start", `\d\d:\d\d:\d\d`, func(r *Record) *string { return &r.Start }),
	stringField("end", `\d\d:\d\d:\d\d`, func(r *Record) *string { return &r.End }),
	floatField("bw", func(r *Record) *float64 { return &r.Bandwidth }),
	intField("io", `\d+`, func(r *Record) *int { return &r.IOs }),
	floatField("iops", func(r *Record) *float64 { return &r.IOPS }),
	floatField("ppspsec", func(r *Record) *float64 { return &r.OpsPerSec }),
	intField("errs", `\d+`, func(r *Record) *int { return &r.Errors }),
	floatField("lat", func(r *Record) *float64 { return &r.Latency }),
	floatField("median", func(r *Record) *float64 { return &r.Median }),
	{
		Name:    "lat_range",
		Pattern: floatPat + `-` + floatPat,
		set: func(r *Record, s string) error {
			lo, hi, _ := strings.Cut(s, "-")
			var err error
			if r.Range.Lo, err = strconv.ParseFloat(lo, 64); err != nil {
				return err
			}
			r.Range.Hi, err = strconv.ParseFloat(hi, 64)
			return err
		},
		get: func(r *Record) string {
			return formatFloat(r.Range.Lo) + "-" + formatFloat(r.Range.Hi)
		},
	},
	floatField("cpu", func(r *Record) *float64 { return &r.CPU }),
	stringField("comp", `\w+`, func(r *Record) *string { return &r.Status }),
}

var lineRE = compileGrammar(Fields)

func compileGrammar(fields []Field) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, f := range fields {
		fmt.Fprintf(&b, `\s*(?P<%s>%s)\s*`, f.Name, f.Pattern)
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// Parse parses line as a getput result line. It reports false if line
// does not match the column grammar; this is not an error, since
// getput output interleaves results with other text.
func Parse(line string) (*Record, bool) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	r := new(Record)
	for i, f := range Fields {
		// Submatch 0 is the whole line; fields follow in order.
		if err := f.set(r, m[i+1]); err != nil {
			// Only possible on integer overflow.
			return nil, false
		}
	}
	return r, true
}

// String formats r as a getput result line. Parse(r.String()) yields
// a record equal to r for every record produced by Parse.
func (r *Record) String() string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.get(r)
	}
	return strings.Join(cols, " ")
}

// Values returns the metric values of r.
func (r *Record) Values() Values {
	return Values{
		Bandwidth: r.Bandwidth,
		IOPS:      r.IOPS,
		Latency:   r.Latency,
		Median:    r.Median,
		Range:     [2]float64{r.Range.Lo, r.Range.Hi},
		CPU:       r.CPU,
		Errors:    r.Errors,
	}
}

// Key returns the test, size and process count of r.
func (r *Record) Key() Key {
	return Key{Test: r.Test, Size: r.Size, Procs: r.Procs}
}

// formatFloat formats x with the fewest digits that parse back to x,
// without an exponent so that the result matches the grammar.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
