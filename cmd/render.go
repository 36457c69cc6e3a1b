package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// renderRows prints row mappings as a table or JSON. Map iteration order is
// not stable, so the header uses sorted column names.
func renderRows(w io.Writer, rows []map[string]any, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}

	sort.Strings(cols)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}

	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, len(cols))
		for i, col := range cols {
			tableRow[i] = formatValue(row[col])
		}

		t.AppendRow(tableRow)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))

	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	return fmt.Sprintf("%v", v)
}
