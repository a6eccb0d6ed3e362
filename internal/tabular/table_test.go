package tabular

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableColumnAccess(t *testing.T) {
	table := New(
		[]string{"line", "passengers", "note"},
		[][]string{
			{"A", "120", "ok"},
			{"B", "95"},
		},
	)

	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 3, table.NumColumns())
	assert.Equal(t, 1, table.ColumnIndex("passengers"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
	assert.True(t, table.HasColumn("line"))
	assert.False(t, table.HasColumn("station"))

	assert.Equal(t, []string{"120", "95"}, table.Column("passengers"))
	assert.Nil(t, table.Column("missing"))

	// Short rows read as empty cells.
	assert.Equal(t, []string{"ok", ""}, table.Column("note"))
	assert.Equal(t, "", table.Cell(1, "note"))
	assert.Equal(t, "B", table.Cell(1, "line"))
	assert.Equal(t, "", table.Cell(5, "line"))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want float64
		ok   bool
	}{
		{name: "integer", cell: "42", want: 42, ok: true},
		{name: "float", cell: "3.14", want: 3.14, ok: true},
		{name: "padded", cell: "  7.5  ", want: 7.5, ok: true},
		{name: "scientific", cell: "1e3", want: 1000, ok: true},
		{name: "negative", cell: "-12", want: -12, ok: true},
		{name: "empty", cell: "", ok: false},
		{name: "text", cell: "abc", ok: false},
		{name: "thousands separator", cell: "1,234", ok: false},
		{name: "nan literal", cell: "NaN", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want float64
	}{
		{name: "numeric", cell: "12.5", want: 12.5},
		{name: "integer", cell: "300", want: 300},
		{name: "empty becomes zero", cell: "", want: 0},
		{name: "text becomes zero", cell: "n/a", want: 0},
		{name: "nan becomes zero", cell: "NaN", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoerceNumber(tt.cell), 1e-9)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4.5", FormatNumber(4.5))
	assert.Equal(t, "1000000", FormatNumber(1000000))
	assert.Equal(t, "-0.25", FormatNumber(-0.25))
	assert.Equal(t, "", FormatNumber(math.NaN()))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want time.Time
		ok   bool
	}{
		{name: "iso", cell: "2024-05-03", want: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "day first slash", cell: "03/05/2024", want: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "single digit", cell: "3/5/2024", want: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "day first dash", cell: "31-12-2024", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "iso datetime", cell: "2024-05-03 10:30:00", want: time.Date(2024, 5, 3, 10, 30, 0, 0, time.UTC), ok: true},
		{name: "garbage", cell: "not-a-date", ok: false},
		{name: "empty", cell: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestFloorToFrequency(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 45, 10, 0, time.UTC) // a Wednesday

	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), FloorToFrequency(ts, "D"))
	assert.Equal(t, time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC), FloorToFrequency(ts, "H"))
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), FloorToFrequency(ts, "W"))

	// Unknown frequencies behave as daily.
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), FloorToFrequency(ts, "X"))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, WeekStart(time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, monday, WeekStart(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, monday, WeekStart(time.Date(2024, 5, 19, 23, 59, 0, 0, time.UTC))) // Sunday
}
