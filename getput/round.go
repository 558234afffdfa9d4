// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getput

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// A Key identifies the configuration of a getput test.
type Key struct {
	Test  string
	Size  string
	Procs int
}

// MarshalJSON encodes k as the tuple [test, size, procs].
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{k.Test, k.Size, k.Procs})
}

// UnmarshalJSON decodes the tuple form written by MarshalJSON.
func (k *Key) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("test key has %d elements, want 3", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &k.Test); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[1], &k.Size); err != nil {
		return err
	}
	return json.Unmarshal(tuple[2], &k.Procs)
}

// Values are the metrics of one result, as stored in round files.
type Values struct {
	Bandwidth float64    `json:"bw"`
	IOPS      float64    `json:"iops"`
	Latency   float64    `json:"lat"`
	Median    float64    `json:"median"`
	Range     [2]float64 `json:"lat_range"`
	CPU       float64    `json:"cpu"`
	Errors    int        `json:"errs"`
}

// A KeyResults holds all results one host reported for one Key.
type KeyResults struct {
	Key    Key
	Values []Values
}

func (kr KeyResults) MarshalJSON() ([]byte, error) {
	vals := kr.Values
	if vals == nil {
		vals = []Values{}
	}
	return json.Marshal([]interface{}{kr.Key, vals})
}

func (kr *KeyResults) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("key results have %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &kr.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &kr.Values)
}

// A HostRound is what one host produced in one round: the wall-clock
// time the round took on that host and its results by key.
type HostRound struct {
	Elapsed float64 // seconds
	Results []KeyResults
}

func (h HostRound) MarshalJSON() ([]byte, error) {
	res := h.Results
	if res == nil {
		res = []KeyResults{}
	}
	return json.Marshal([]interface{}{h.Elapsed, res})
}

func (h *HostRound) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("host round has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &h.Elapsed); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &h.Results)
}

// A Round maps each participating host to its results for one
// benchmark round.
type Round map[string]HostRound

// Hosts returns the hosts of r in sorted order.
func (r Round) Hosts() []string {
	hosts := make([]string, 0, len(r))
	for h := range r {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// IsRoundLine reports whether line holds an encoded Round. Round
// files also contain separator and failure lines, which are not
// rounds.
func IsRoundLine(line []byte) bool {
	return len(line) > 0 && line[0] == '{'
}

// DecodeRound decodes one round file line.
func DecodeRound(line []byte) (Round, error) {
	var r Round
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeRound encodes r as a single line without a trailing newline.
func EncodeRound(r Round) ([]byte, error) {
	return json.Marshal(r)
}

// GroupByKey parses getput output text and groups the results by
// Key, in order of first appearance. Lines that are not results are
// skipped. A read error, such as a line over the length limit, fails
// the whole output.
func GroupByKey(output string) ([]KeyResults, error) {
	var out []KeyResults
	index := make(map[Key]int)
	r := NewReader(bytes.NewReader([]byte(output)), "")
	for r.Scan() {
		rec := r.Record()
		k := rec.Key()
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, KeyResults{Key: k})
		}
		out[i].Values = append(out[i].Values, rec.Values())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
