package parser

import "strings"

// Field is one column-value pair of a listing row.
type Field struct {
	Column string
	Value  string
}

// Row is one data row in a source file, in original column order.
type Row []Field

// Text renders the row as one "column: value" line per field, keeping the
// file's column order and omitting fields with empty values.
func (r Row) Text() string {
	parts := make([]string, 0, len(r))

	for _, field := range r {
		if len(field.Value) == 0 {
			continue
		}
		parts = append(parts, field.Column+": "+field.Value)
	}

	return strings.Join(parts, "\n")
}
