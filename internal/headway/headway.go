// Package headway estimates average train headways per line and month from
// dispatch counts published by the operator.
package headway

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"transitqc/internal/tabular"
	"transitqc/internal/transit"
)

// OperatingMinutesPerDay is the assumed service span: roughly 05:00 to
// 23:00 across the network.
const OperatingMinutesPerDay = 1080

// Source tags recorded on every estimate row.
const (
	SourceMonthly = "monthly_dispatched_trains"
	SourceDaily   = "daily_trains_aggregated"
)

// Estimate is one line-month headway figure.
type Estimate struct {
	YearMonth  string // "2006-01"
	Line       string
	AvgMinutes float64
	Source     string
}

// FromMonthly computes estimates from a table of monthly dispatch totals
// with columns year_month, line and dispatched_trains. Rows with a
// malformed month or a non-positive count are dropped.
func FromMonthly(t *tabular.Table) ([]Estimate, error) {
	for _, col := range []string{"year_month", "line", "dispatched_trains"} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("monthly dispatch table missing column '%s'", col)
		}
	}

	var estimates []Estimate
	for i := 0; i < t.NumRows(); i++ {
		ym := strings.TrimSpace(t.Cell(i, "year_month"))
		month, err := time.Parse("2006-01", ym)
		if err != nil {
			continue
		}
		dispatched, ok := tabular.ParseNumber(t.Cell(i, "dispatched_trains"))
		if !ok || dispatched <= 0 {
			continue
		}
		estimates = append(estimates, Estimate{
			YearMonth:  ym,
			Line:       transit.NormalizeLine(t.Cell(i, "line")),
			AvgMinutes: OperatingMinutesPerDay * float64(daysInMonth(month)) / dispatched,
			Source:     SourceMonthly,
		})
	}
	return estimates, nil
}

// FromDaily aggregates a table of daily dispatch counts with columns date,
// line and trains into monthly totals and computes estimates from those.
func FromDaily(t *tabular.Table) ([]Estimate, error) {
	for _, col := range []string{"date", "line", "trains"} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("daily dispatch table missing column '%s'", col)
		}
	}

	type key struct {
		ym   string
		line string
	}
	totals := make(map[key]float64)
	for i := 0; i < t.NumRows(); i++ {
		day, ok := tabular.ParseDate(t.Cell(i, "date"))
		if !ok {
			continue
		}
		trains, ok := tabular.ParseNumber(t.Cell(i, "trains"))
		if !ok || trains <= 0 {
			continue
		}
		k := key{ym: day.Format("2006-01"), line: transit.NormalizeLine(t.Cell(i, "line"))}
		totals[k] += trains
	}

	var estimates []Estimate
	for k, dispatched := range totals {
		month, _ := time.Parse("2006-01", k.ym)
		estimates = append(estimates, Estimate{
			YearMonth:  k.ym,
			Line:       k.line,
			AvgMinutes: OperatingMinutesPerDay * float64(daysInMonth(month)) / dispatched,
			Source:     SourceDaily,
		})
	}
	return estimates, nil
}

// Build produces the final estimate set. Monthly totals are authoritative;
// the daily aggregation is used only when no monthly input exists at all.
// The result is sorted by (year_month, line, source) and de-duplicated
// keep-first on (year_month, line).
func Build(monthly, daily *tabular.Table) ([]Estimate, error) {
	var estimates []Estimate
	switch {
	case monthly != nil && monthly.NumRows() > 0:
		var err error
		estimates, err = FromMonthly(monthly)
		if err != nil {
			return nil, err
		}
	case daily != nil && daily.NumRows() > 0:
		var err error
		estimates, err = FromDaily(daily)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no dispatch data available")
	}

	sort.SliceStable(estimates, func(i, j int) bool {
		if estimates[i].YearMonth != estimates[j].YearMonth {
			return estimates[i].YearMonth < estimates[j].YearMonth
		}
		if estimates[i].Line != estimates[j].Line {
			return estimates[i].Line < estimates[j].Line
		}
		return estimates[i].Source < estimates[j].Source
	})

	seen := make(map[string]bool, len(estimates))
	deduped := estimates[:0]
	for _, e := range estimates {
		k := e.YearMonth + "\x1f" + e.Line
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, e)
	}
	return deduped, nil
}

// ToTable renders estimates as a table ready for CSV export.
func ToTable(estimates []Estimate) *tabular.Table {
	rows := make([][]string, len(estimates))
	for i, e := range estimates {
		rows[i] = []string{
			e.YearMonth,
			e.Line,
			tabular.FormatNumber(e.AvgMinutes),
			e.Source,
		}
	}
	return tabular.New([]string{"year_month", "line", "avg_headway_min", "source"}, rows)
}

func daysInMonth(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
