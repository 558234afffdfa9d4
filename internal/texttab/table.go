// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up a row at once.
type Table struct {
	// Border draws an outer box and vertical lines between columns.
	Border bool

	rows  []row
	cols  int
	align []align // per-column default alignment
}

type row struct {
	cells []cell
	rule  rune // if non-zero, this row is a horizontal rule of rule
}

type cell struct {
	value     string
	alignment align
	set       bool // alignment was given explicitly
}

// A CellOption modifies a cell or, with Column, a column.
type CellOption func(c *cell)

var (
	Left   CellOption = func(c *cell) { c.alignment, c.set = alignLeft, true }
	Center CellOption = func(c *cell) { c.alignment, c.set = alignCenter, true }
	Right  CellOption = func(c *cell) { c.alignment, c.set = alignRight, true }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		l := n / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
	case alignRight:
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Column sets the default alignment of cells in column col. Columns
// are numbered starting at 0.
func (t *Table) Column(col int, opts ...CellOption) *Table {
	for len(t.align) <= col {
		t.align = append(t.align, alignLeft)
	}
	var c cell
	for _, o := range opts {
		o(&c)
	}
	t.align[col] = c.alignment
	return t
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, row{})
	return t
}

// Rule adds a horizontal rule drawn with ch.
func (t *Table) Rule(ch rune) *Table {
	t.rows = append(t.rows, row{rule: ch})
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 || t.rows[len(t.rows)-1].rule != 0 {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r.cells = append(r.cells, c)
	if len(r.cells) > t.cols {
		t.cols = len(r.cells)
	}
	return t
}

// Cells adds one cell per value to the current row.
func (t *Table) Cells(values ...string) *Table {
	for _, v := range values {
		t.Cell(v)
	}
	return t
}

func (t *Table) colAlign(col int) align {
	if col < len(t.align) {
		return t.align[col]
	}
	return alignLeft
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, r := range t.rows {
		for i, c := range r.cells {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}

	var b strings.Builder
	rule := func(ch rune) {
		if t.Border {
			b.WriteByte('+')
			for _, w := range ws {
				b.WriteString(strings.Repeat(string(ch), w+2))
				b.WriteByte('+')
			}
		} else {
			for i, w := range ws {
				if i > 0 {
					b.WriteString("  ")
				}
				b.WriteString(strings.Repeat(string(ch), w))
			}
		}
		b.WriteByte('\n')
	}

	if t.Border && len(t.rows) > 0 {
		rule('-')
	}
	for _, r := range t.rows {
		if r.rule != 0 {
			rule(r.rule)
			continue
		}
		var line strings.Builder
		for i := 0; i < t.cols; i++ {
			var c cell
			if i < len(r.cells) {
				c = r.cells[i]
			}
			a := t.colAlign(i)
			if c.set {
				a = c.alignment
			}
			switch {
			case t.Border:
				line.WriteString("| ")
			case i > 0:
				line.WriteString("  ")
			}
			line.WriteString(a.pad(c.value, ws[i]))
			if t.Border {
				line.WriteByte(' ')
			}
		}
		if t.Border {
			line.WriteByte('|')
		}
		// Don't print unnecessary trailing spaces.
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	if t.Border && len(t.rows) > 0 {
		rule('-')
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
