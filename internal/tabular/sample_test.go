package tabular

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRows(t *testing.T) {
	rows := make([][]string, 100)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i)}
	}
	tbl := New([]string{"n"}, rows)

	first := SampleRows(tbl, 10, 42)
	second := SampleRows(tbl, 10, 42)

	require.Equal(t, 10, first.NumRows())
	assert.Equal(t, first.Rows, second.Rows, "same seed draws the same rows")

	other := SampleRows(tbl, 10, 7)
	assert.NotEqual(t, first.Rows, other.Rows, "different seed draws differently")

	seen := make(map[string]bool)
	for _, row := range first.Rows {
		assert.False(t, seen[row[0]], "sampling is without replacement")
		seen[row[0]] = true
	}
}

func TestSampleRowsUnderLimit(t *testing.T) {
	tbl := New([]string{"n"}, [][]string{{"1"}, {"2"}})

	assert.Same(t, tbl, SampleRows(tbl, 5, 42))
	assert.Same(t, tbl, SampleRows(tbl, 2, 42))
	assert.Same(t, tbl, SampleRows(tbl, 0, 42))
}
