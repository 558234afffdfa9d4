// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit parses and formats the human-readable object
// sizes used by storage benchmarks, such as "64k" or "1m".
package benchunit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned (wrapped) by ParseSize for tokens that
// are not a size.
var ErrInvalidSize = errors.New("invalid size format")

// Binary multipliers for the size suffixes, indexed by lower-case
// suffix.
var suffixes = map[byte]int64{
	'k': 1 << 10,
	'm': 1 << 20,
	'g': 1 << 30,
	't': 1 << 40,
}

// ParseSize returns the number of bytes denoted by s. s is either a
// bare decimal integer, which is a byte count, or a decimal integer
// immediately followed by one of the case-insensitive suffixes k, m,
// g or t, which multiply by 1024, 1024², 1024³ and 1024⁴.
//
// Any other token, including the empty string, yields an error
// wrapping ErrInvalidSize.
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w %q", ErrInvalidSize, s)
	}
	num, mul := s, int64(1)
	if f, ok := suffixes[strings.ToLower(s[len(s)-1:])[0]]; ok {
		num, mul = s[:len(s)-1], f
	}
	// ParseInt accepts a sign; a size does not.
	if num == "" || num[0] == '+' || num[0] == '-' {
		return 0, fmt.Errorf("%w %q", ErrInvalidSize, s)
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidSize, s)
	}
	if n > math.MaxInt64/mul {
		return 0, fmt.Errorf("%w %q: too large", ErrInvalidSize, s)
	}
	return n * mul, nil
}

var prefixes = []struct {
	name  string
	scale int64
}{
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"T", 1 << 40},
}

// FormatSize is the inverse of ParseSize for display. Sizes below
// 1024 are printed as plain byte counts. Larger sizes use the largest
// prefix that keeps the value under 1024, with one decimal if the
// size is not a whole multiple of the prefix. Sizes of 1024 T or more
// are printed in "Ti".
func FormatSize(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10)
	}
	for _, p := range prefixes {
		if n < 1024*p.scale {
			if n%p.scale == 0 {
				return fmt.Sprintf("%d%s", n/p.scale, p.name)
			}
			return fmt.Sprintf("%.1f%s", float64(n)/float64(p.scale), p.name)
		}
	}
	last := prefixes[len(prefixes)-1]
	return fmt.Sprintf("%d%si", n/last.scale, last.name)
}
