// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"fmt"
	"sort"

	"github.com/clusterbench/perf/benchunit"
	"github.com/clusterbench/perf/getput"
)

// A Key identifies an aggregation group: a test, an object size and a
// per-node process count. Keys are comparable and are used directly
// as map keys.
type Key struct {
	Test string
	Size string // size token as reported, such as "64k"
	// Procs is the process count per load-generating node.
	Procs int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Test, k.Size, k.Procs)
}

// KeyOf returns the Key of a getput test key when the reported
// process count covers nodes load-generating nodes.
func KeyOf(k getput.Key, nodes int) Key {
	return Key{Test: k.Test, Size: k.Size, Procs: k.Procs / nodes}
}

// SamePrefix reports whether k and o have the same test and size.
func (k Key) SamePrefix(o Key) bool {
	return k.Test == o.Test && k.Size == o.Size
}

// SortKeys sorts keys by test name, then size in bytes, then process
// count. It fails, leaving keys unsorted, if any size token is not a
// valid size.
func SortKeys(keys []Key) error {
	sizes := make(map[string]int64)
	for _, k := range keys {
		if _, ok := sizes[k.Size]; ok {
			continue
		}
		n, err := benchunit.ParseSize(k.Size)
		if err != nil {
			return fmt.Errorf("key %v: %w", k, err)
		}
		sizes[k.Size] = n
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Test != b.Test {
			return a.Test < b.Test
		}
		if sizes[a.Size] != sizes[b.Size] {
			return sizes[a.Size] < sizes[b.Size]
		}
		if a.Procs != b.Procs {
			return a.Procs < b.Procs
		}
		// Equal sizes spelled differently, such as "1k" and
		// "1024". Keep the order total.
		return a.Size < b.Size
	})
	return nil
}

// UnionKeys returns the sorted union of the keys of results.
func UnionKeys(results ...*Result) ([]Key, error) {
	seen := make(map[Key]bool)
	var keys []Key
	for _, res := range results {
		for _, k := range res.Keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	if err := SortKeys(keys); err != nil {
		return nil, err
	}
	return keys, nil
}
