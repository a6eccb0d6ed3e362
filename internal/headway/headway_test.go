package headway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitqc/internal/tabular"
)

func TestFromMonthly(t *testing.T) {
	tbl := tabular.New(
		[]string{"year_month", "line", "dispatched_trains"},
		[][]string{
			{"2024-01", "Linea A", "8640"},
			{"2024-02", "B", "0"},
			{"bad-month", "C", "100"},
			{"2024-02", "b", "7000"},
		},
	)

	estimates, err := FromMonthly(tbl)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// January has 31 days: 1080 * 31 / 8640.
	assert.Equal(t, "2024-01", estimates[0].YearMonth)
	assert.Equal(t, "A", estimates[0].Line)
	assert.InDelta(t, 3.875, estimates[0].AvgMinutes, 1e-9)
	assert.Equal(t, SourceMonthly, estimates[0].Source)

	// 2024 is a leap year: 1080 * 29 / 7000.
	assert.Equal(t, "B", estimates[1].Line)
	assert.InDelta(t, 4.474285714285714, estimates[1].AvgMinutes, 1e-9)
}

func TestFromMonthlyMissingColumn(t *testing.T) {
	tbl := tabular.New([]string{"year_month", "line"}, nil)

	_, err := FromMonthly(tbl)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatched_trains")
}

func TestFromDailyAggregatesToMonths(t *testing.T) {
	tbl := tabular.New(
		[]string{"date", "line", "trains"},
		[][]string{
			{"2024-01-01", "A", "280"},
			{"2024-01-02", "A", "300"},
			{"2024-01-03", "A", "-5"},
			{"2024-02-01", "A", "290"},
		},
	)

	estimates, err := FromDaily(tbl)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	byMonth := map[string]Estimate{}
	for _, e := range estimates {
		byMonth[e.YearMonth] = e
	}

	jan := byMonth["2024-01"]
	assert.Equal(t, SourceDaily, jan.Source)
	// 1080 * 31 / (280 + 300).
	assert.InDelta(t, 57.724137931034484, jan.AvgMinutes, 1e-9)

	feb := byMonth["2024-02"]
	assert.InDelta(t, 1080.0*29/290, feb.AvgMinutes, 1e-9)
}

func TestBuildPrefersMonthly(t *testing.T) {
	monthly := tabular.New(
		[]string{"year_month", "line", "dispatched_trains"},
		[][]string{{"2024-01", "A", "8640"}},
	)
	daily := tabular.New(
		[]string{"date", "line", "trains"},
		[][]string{{"2024-01-15", "A", "300"}},
	)

	estimates, err := Build(monthly, daily)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, SourceMonthly, estimates[0].Source)
}

func TestBuildFallsBackToDaily(t *testing.T) {
	daily := tabular.New(
		[]string{"date", "line", "trains"},
		[][]string{{"2024-01-15", "A", "300"}},
	)

	estimates, err := Build(nil, daily)
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, SourceDaily, estimates[0].Source)
}

func TestBuildNoData(t *testing.T) {
	_, err := Build(nil, nil)
	assert.Error(t, err)
}

func TestBuildSortsAndDeduplicates(t *testing.T) {
	monthly := tabular.New(
		[]string{"year_month", "line", "dispatched_trains"},
		[][]string{
			{"2024-02", "B", "7000"},
			{"2024-01", "A", "8640"},
			{"2024-01", "A", "9000"},
		},
	)

	estimates, err := Build(monthly, nil)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	assert.Equal(t, "2024-01", estimates[0].YearMonth)
	assert.Equal(t, "A", estimates[0].Line)
	// Keep-first after the sort: the 8640 row appears before the 9000 one.
	assert.InDelta(t, 3.875, estimates[0].AvgMinutes, 1e-9)
	assert.Equal(t, "2024-02", estimates[1].YearMonth)
}

func TestToTable(t *testing.T) {
	table := ToTable([]Estimate{
		{YearMonth: "2024-01", Line: "A", AvgMinutes: 3.875, Source: SourceMonthly},
	})

	assert.Equal(t, []string{"year_month", "line", "avg_headway_min", "source"}, table.Columns)
	assert.Equal(t, []string{"2024-01", "A", "3.875", SourceMonthly}, table.Rows[0])
}
