// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modtab

import (
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Parse(`<table class='modtab'>
<tr>{{range .Headers}}<th>{{.}}{{end}}{{range .Columns}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr>{{range .Cells}}{{if gt .Span 1}}<td rowspan='{{.Span}}'>{{.Text}}{{else}}<td>{{.Text}}{{end}}{{end}}{{range .Values}}<td class='value'>{{.}}{{end}}
{{end -}}
</table>
`))

type htmlTable struct {
	Headers []string
	Columns []string
	Rows    []htmlRow
}

type htmlRow struct {
	Cells  []Cell // visible cells only
	Values []string
}

// FormatHTML writes t as an HTML table. A spanning cell becomes a
// td with a rowspan attribute, and the cells it covers are omitted.
func FormatHTML(w io.Writer, t *Table) error {
	ht := htmlTable{Headers: t.Headers}
	for _, c := range t.Columns {
		ht.Columns = append(ht.Columns, c.Header)
	}
	for _, r := range t.Rows {
		var hr htmlRow
		for _, c := range r.Cells {
			if !c.Hidden() {
				hr.Cells = append(hr.Cells, c)
			}
		}
		for j, v := range r.Values {
			if j < len(t.Columns) {
				hr.Values = append(hr.Values, formatValue(v, t.Columns[j]))
			}
		}
		ht.Rows = append(ht.Rows, hr)
	}
	return htmlTemplate.Execute(w, ht)
}
