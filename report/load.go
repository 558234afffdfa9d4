// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/clusterbench/perf/aggregate"
	"github.com/clusterbench/perf/benchmath"
)

var (
	nameRe = regexp.MustCompile(`^\w+$`)
	sizeRe = regexp.MustCompile(`^\d+[kmgtKMGT]?$`)
	valRe  = regexp.MustCompile(`^(\d+)\s*~\s*(\d+)$`)
)

// LoadTable reads an absolute report previously written by FormatText
// and returns it as a Result normalized by nodeCount nodes. Only the
// IOPS, latency and error columns can be recovered; their summaries
// hold just the reported mean and confidence half-width.
//
// Lines that are not data rows, such as borders, the header and
// separator rows, are skipped.
func LoadTable(r io.Reader, nodeCount int) (*aggregate.Result, error) {
	if nodeCount < 1 {
		return nil, fmt.Errorf("node count must be positive, got %d", nodeCount)
	}
	res := &aggregate.Result{NodeCount: nodeCount, Groups: make(map[aggregate.Key]aggregate.Group)}
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		cells, ok := splitRow(s.Text())
		if !ok || len(cells) < 5 {
			continue
		}
		if !nameRe.MatchString(cells[0]) || !sizeRe.MatchString(cells[1]) {
			continue
		}
		threads, err := strconv.Atoi(cells[2])
		if err != nil {
			continue
		}
		iops, ok1 := parseReported(cells[3])
		lat, ok2 := parseReported(cells[4])
		if !ok1 || !ok2 {
			continue
		}
		errs := 0
		if len(cells) > 5 {
			if errs, err = strconv.Atoi(cells[5]); err != nil {
				return nil, fmt.Errorf("line %d: bad error count %q", line, cells[5])
			}
		}

		k := aggregate.Key{Test: cells[0], Size: cells[1], Procs: threads / nodeCount}
		if _, dup := res.Groups[k]; dup {
			return nil, fmt.Errorf("line %d: duplicate row for %v", line, k)
		}
		res.Keys = append(res.Keys, k)
		res.Groups[k] = aggregate.Group{
			aggregate.IOPS:    iops,
			aggregate.Latency: lat,
			aggregate.Errors:  benchmath.Reported(float64(errs), 0),
		}
		res.Samples++
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	if err := aggregate.SortKeys(res.Keys); err != nil {
		return nil, err
	}
	return res, nil
}

// splitRow splits a bordered text row "| a | b |" into its trimmed
// cells.
func splitRow(l string) ([]string, bool) {
	l = strings.TrimSpace(l)
	if len(l) < 2 || l[0] != '|' || l[len(l)-1] != '|' {
		return nil, false
	}
	cells := strings.Split(l[1:len(l)-1], "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells, true
}

func parseReported(cell string) (*benchmath.Summary, bool) {
	m := valRe.FindStringSubmatch(cell)
	if m == nil {
		return nil, false
	}
	avg, err1 := strconv.ParseFloat(m[1], 64)
	conf, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return benchmath.Reported(avg, conf), true
}
