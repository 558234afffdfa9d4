// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/clusterbench/perf/internal/texttab"
)

// FormatText writes t as a bordered text table. Consecutive rows with
// a different test or size are divided by a separator row of dashes.
func FormatText(w io.Writer, t *Table) error {
	tab := &texttab.Table{Border: true}
	for i := t.left; i < len(t.Header); i++ {
		tab.Column(i, texttab.Right)
	}
	tab.Row()
	for _, h := range t.Header {
		tab.Cell(h, texttab.Center)
	}
	tab.Rule('=')

	for i, g := range t.groups() {
		if i > 0 {
			tab.Row()
			for _, h := range t.Header {
				tab.Cell(strings.Repeat("-", len(h)))
			}
		}
		for _, r := range g {
			tab.Row().Cells(r.Cells...)
		}
	}
	return tab.Format(w)
}

// FormatCSV writes t as CSV, with the header as the first record.
// Separator rows are not written.
func FormatCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Write(t.Header)
	for _, r := range t.Rows {
		cw.Write(r.Cells)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
