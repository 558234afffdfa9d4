// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Parse(`
<table class='getputstat'>
<thead>
<tr>{{range .Header}}<th>{{.}}{{end}}
</thead>
{{- range .Groups}}
<tbody>
{{range . -}}
<tr>{{range $i, $c := .Cells}}<td{{if ge $i $.Left}} class='num'{{end}}>{{$c}}{{end}}
{{end -}}
</tbody>
{{- end}}
</table>
`))

// FormatHTML writes t as an HTML table with one tbody per run of rows
// with the same test and size.
func FormatHTML(w io.Writer, t *Table) error {
	data := struct {
		Header []string
		Groups [][]*Row
		Left   int
	}{t.Header, t.groups(), t.left}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}
