// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		got := a.pad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 6, "abc   ")
	check("abc", alignCenter, 6, " abc  ")
	check("abc", alignCenter, 7, "  abc  ")
	check("abc", alignRight, 6, "   abc")
	check("☃", alignRight, 4, "   ☃")
	check("toolong", alignRight, 3, "toolong")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		// Reset tab.
		tab = Table{}
	}

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding, without trailing spaces.
	tab.Row().Cells("a", "b", "c")
	tab.Row().Cells("long", "e", "long")
	check("a     b  c\nlong  e  long\n")

	// Cell alignment over column alignment.
	tab.Column(2, Right)
	tab.Row().Cell("a", Left).Cell("b", Center).Cell("c")
	tab.Row().Cells("xxx", "xxx", "xxx")
	tab.Row().Cells("y", "y", "y", "zz")
	check("a     b     c\nxxx  xxx  xxx\ny    y      y  zz\n")

	// Missing cells at the end.
	tab.Row().Cell("a")
	tab.Row().Cells("d", "e", "f")
	check("a\nd  e  f\n")

	// Rules, without and with a border.
	tab.Row().Cells("h1", "head2")
	tab.Rule('=')
	tab.Cells("a", "b")
	check("h1  head2\n==  =====\na   b\n")

	tab.Border = true
	tab.Column(1, Right)
	tab.Row().Cells("h1", "head2")
	tab.Rule('=')
	tab.Cells("a", "b")
	tab.Row().Cells("--", "-----")
	tab.Row().Cells("c", "d")
	check("+----+-------+\n" +
		"| h1 | head2 |\n" +
		"+====+=======+\n" +
		"| a  |     b |\n" +
		"| -- | ----- |\n" +
		"| c  |     d |\n" +
		"+----+-------+\n")

	// Empty table.
	tab.Border = true
	check("")
}
