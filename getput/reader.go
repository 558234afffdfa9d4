// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package getput

import (
	"bufio"
	"fmt"
	"io"
)

// A Reader reads getput result lines from an input stream.
//
// Its API is modeled on bufio.Scanner. Lines that are not result lines
// are skipped; only I/O errors are reported.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	rec      *Record
	err      error
}

// maxLine bounds the length of one line of getput output, which may
// carry long diagnostics between results.
const maxLine = 1 << 20

// NewReader returns a Reader reading from r. fileName is used in
// error messages only.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxLine)
	return &Reader{s: s, fileName: fileName}
}

// Scan advances to the next result line and reports whether there is
// one. At EOF or on an I/O error it returns false; the caller should
// then check Err.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		if rec, ok := Parse(r.s.Text()); ok {
			r.rec = rec
			return true
		}
	}
	r.rec = nil
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Record returns the record read by the last call to Scan. Unlike
// the scanner's buffers, the record belongs to the caller.
func (r *Reader) Record() *Record {
	return r.rec
}

// Line returns the line number of the current record.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first I/O error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}
