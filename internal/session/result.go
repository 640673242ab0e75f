// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"fmt"
	"io"
	"strings"
)

// QueryKind is the dispatch branch a statement is routed to.
type QueryKind int

const (
	// Read routes through the row-fetching path.
	Read QueryKind = iota
	// Write routes through the execute path and reports the driver tag.
	Write
)

// Classify routes a statement to the read or write path. The rule is a
// prefix heuristic, not SQL parsing: anything that does not start with
// SELECT after trimming (case-insensitive) is treated as a write.
func Classify(query string) QueryKind {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		return Read
	}
	return Write
}

// Result represents the outcome of one dispatched statement.
// Read results carry the full eagerly-fetched row set; write results carry
// the driver-provided command tag verbatim.
type Result struct {
	Kind    QueryKind
	Columns []string
	Rows    [][]any
	Tag     string
}

// RowMaps returns the rows as ordered column-name-to-value mappings.
func (r *Result) RowMaps() []map[string]any {
	maps := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			if j < len(row) {
				m[col] = row[j]
			}
		}
		maps[i] = m
	}
	return maps
}

// Render writes the result the way the interactive loop reports it.
func (r *Result) Render(w io.Writer) {
	if r.Kind == Write {
		fmt.Fprintf(w, "✅ Query executed: %s\n", r.Tag)
		return
	}
	if len(r.Rows) == 0 {
		fmt.Fprintln(w, "✅ Query returned 0 rows")
		return
	}
	fmt.Fprintf(w, "✅ Query returned %d rows:\n", len(r.Rows))
	for _, row := range r.RowMaps() {
		fmt.Fprintf(w, "  %v\n", row)
	}
}
