package quality

import (
	"fmt"
	"sort"
	"strings"

	"transitqc/internal/tabular"
)

// Validate checks a table against an expectation and returns human-readable
// issue strings. The check order is fixed so output is deterministic:
// missing columns, unexpected columns, non-null violations, row count,
// allowed values, value ranges, uniqueness. Violations never abort the
// scan; an empty result means the table conforms.
func Validate(t *tabular.Table, exp Expectation) []string {
	var issues []string

	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}
	expected := make(map[string]bool, len(exp.ExpectedColumns))
	for _, c := range exp.ExpectedColumns {
		expected[c] = true
	}

	var missing []string
	for c := range expected {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		issues = append(issues, fmt.Sprintf("Missing columns: %v", missing))
	}

	var extra []string
	for c := range present {
		if !expected[c] {
			extra = append(extra, c)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		issues = append(issues, fmt.Sprintf("Unexpected columns: %v", extra))
	}

	for _, col := range exp.NonNullColumns {
		if !t.HasColumn(col) {
			issues = append(issues, fmt.Sprintf("Non-null column '%s' is missing from table", col))
			continue
		}
		nulls := 0
		for _, cell := range t.Column(col) {
			if cell == "" {
				nulls++
			}
		}
		if nulls > 0 {
			issues = append(issues, fmt.Sprintf("Column '%s' has %d null values", col, nulls))
		}
	}

	if t.NumRows() < exp.minRows() {
		issues = append(issues, fmt.Sprintf(
			"Dataset has %d rows, less than required minimum %d", t.NumRows(), exp.minRows()))
	}

	for _, col := range sortedKeys(exp.AllowedValues) {
		if !t.HasColumn(col) {
			continue
		}
		allowed := make(map[string]bool, len(exp.AllowedValues[col]))
		for _, v := range exp.AllowedValues[col] {
			allowed[v] = true
		}
		var invalid []string
		seen := make(map[string]bool)
		for _, cell := range t.Column(col) {
			if !allowed[cell] && !seen[cell] {
				seen[cell] = true
				invalid = append(invalid, cell)
			}
		}
		if len(invalid) > 0 {
			issues = append(issues, fmt.Sprintf(
				"Column '%s' contains values outside allowed set: %v", col, invalid))
		}
	}

	for _, col := range sortedKeys(exp.ValueRanges) {
		if !t.HasColumn(col) {
			continue
		}
		bounds := exp.ValueRanges[col]
		below, above := false, false
		for _, cell := range t.Column(col) {
			v, ok := tabular.ParseNumber(cell)
			if !ok {
				continue
			}
			if bounds.Min != nil && v < *bounds.Min {
				below = true
			}
			if bounds.Max != nil && v > *bounds.Max {
				above = true
			}
		}
		if below {
			issues = append(issues, fmt.Sprintf(
				"Column '%s' has values below minimum %s", col, tabular.FormatNumber(*bounds.Min)))
		}
		if above {
			issues = append(issues, fmt.Sprintf(
				"Column '%s' has values above maximum %s", col, tabular.FormatNumber(*bounds.Max)))
		}
	}

	for _, key := range exp.UniqueKeys {
		if len(key) == 0 {
			continue
		}
		indices := make([]int, 0, len(key))
		for _, k := range key {
			idx := t.ColumnIndex(k)
			if idx < 0 {
				indices = nil
				break
			}
			indices = append(indices, idx)
		}
		if indices == nil {
			continue
		}
		seen := make(map[string]bool, t.NumRows())
		duplicated := 0
		for _, row := range t.Rows {
			parts := make([]string, len(indices))
			for j, idx := range indices {
				if idx < len(row) {
					parts[j] = row[idx]
				}
			}
			k := strings.Join(parts, "\x1f")
			if seen[k] {
				duplicated++
			} else {
				seen[k] = true
			}
		}
		if duplicated > 0 {
			issues = append(issues, fmt.Sprintf(
				"Composite key %v has %d duplicated rows", key, duplicated))
		}
	}

	return issues
}

// sortedKeys returns a map's keys in sorted order so map-typed constraints
// produce deterministic issue lists.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
