// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/clusterbench/perf/getput"
)

// maxRoundLine bounds the length of one round file line. A round
// carries every host's results, so lines can be long.
const maxRoundLine = 64 << 20

// ReadRounds adds every round of a round file to c. Lines that do not
// hold a round are ignored; a round line that cannot be decoded is an
// error. fileName is used in error messages only.
func (c *Collection) ReadRounds(r io.Reader, fileName string, cfg Config) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxRoundLine)
	line := 0
	for s.Scan() {
		line++
		if !getput.IsRoundLine(s.Bytes()) {
			continue
		}
		round, err := getput.DecodeRound(s.Bytes())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", fileName, line, err)
		}
		c.AddRound(round, cfg)
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%s:%d: %w", fileName, line, err)
	}
	return nil
}

// AddRound adds one benchmark round and reports whether it was kept.
//
// Every host of the round counts towards NodeCount. If the slowest
// host's elapsed time exceeds cfg.SkewRatio times the fastest's, the
// round was run under skew and all of its results are discarded and
// counted by Skipped.
//
// Otherwise the hosts of the round are merged into per-cluster
// samples: the j'th sample of a key combines the j'th result of each
// host that reported the key. Bandwidth, IOPS and errors are summed
// across hosts, latency, median latency and CPU are averaged, and the
// latency range spans the lowest and highest bound. Results beyond
// the shortest host's count for a key are dropped and counted by
// Unmatched.
func (c *Collection) AddRound(round getput.Round, cfg Config) bool {
	if len(round) == 0 {
		return false
	}
	if c.hosts == nil {
		c.hosts = make(map[string]bool)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for host, hr := range round {
		c.hosts[host] = true
		lo = math.Min(lo, hr.Elapsed)
		hi = math.Max(hi, hr.Elapsed)
	}
	if hi > lo*cfg.SkewRatio {
		for _, hr := range round {
			for _, kr := range hr.Results {
				c.skipped += len(kr.Values)
			}
		}
		return false
	}

	// Collect each key's per-host result lists in host order, and
	// keys in order of first appearance.
	var keys []getput.Key
	perKey := make(map[getput.Key][][]getput.Values)
	for _, host := range round.Hosts() {
		for _, kr := range round[host].Results {
			if _, ok := perKey[kr.Key]; !ok {
				keys = append(keys, kr.Key)
			}
			perKey[kr.Key] = append(perKey[kr.Key], kr.Values)
		}
	}

	for _, gk := range keys {
		lists := perKey[gk]
		n := len(lists[0])
		total := 0
		for _, l := range lists {
			n = min(n, len(l))
			total += len(l)
		}
		c.unmatched += total - n*len(lists)
		k := KeyOf(gk, 1)
		for j := 0; j < n; j++ {
			c.Add(k, mergeHosts(lists, j))
		}
		c.samples += n * len(lists)
	}
	return true
}

// mergeHosts combines the j'th result of every host list into one
// cluster-wide result.
func mergeHosts(lists [][]getput.Values, j int) getput.Values {
	var m getput.Values
	m.Range = [2]float64{math.Inf(1), math.Inf(-1)}
	for _, l := range lists {
		v := l[j]
		m.Bandwidth += v.Bandwidth
		m.IOPS += v.IOPS
		m.Errors += v.Errors
		m.Latency += v.Latency
		m.Median += v.Median
		m.CPU += v.CPU
		m.Range[0] = math.Min(m.Range[0], v.Range[0])
		m.Range[1] = math.Max(m.Range[1], v.Range[1])
	}
	n := float64(len(lists))
	m.Latency /= n
	m.Median /= n
	m.CPU /= n
	return m
}
