package quality

import (
	"strings"

	"transitqc/internal/tabular"
)

// StandardizeColumns normalizes a table's header: names are trimmed,
// lower-cased, and spaces and hyphens become underscores. The transform is
// idempotent and touches only the header.
func StandardizeColumns(t *tabular.Table) *tabular.Table {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		c = strings.ToLower(strings.TrimSpace(c))
		c = strings.ReplaceAll(c, " ", "_")
		c = strings.ReplaceAll(c, "-", "_")
		cols[i] = c
	}
	return tabular.New(cols, t.Rows)
}

// BasicClean standardizes the header, drops exact duplicate rows keeping
// the first occurrence, and trims whitespace on every cell. Remaining rows
// keep their relative order. The expectation identifies the dataset being
// cleaned; its constraints are not applied here.
func BasicClean(t *tabular.Table, exp Expectation) *tabular.Table {
	out := StandardizeColumns(t)

	width := len(out.Columns)
	seen := make(map[string]struct{}, len(out.Rows))
	rows := make([][]string, 0, len(out.Rows))
	for _, row := range out.Rows {
		padded := make([]string, width)
		copy(padded, row)

		// Duplicates are judged on the raw cells, before trimming.
		key := strings.Join(padded, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		for j, cell := range padded {
			padded[j] = strings.TrimSpace(cell)
		}
		rows = append(rows, padded)
	}

	return tabular.New(out.Columns, rows)
}
