package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"transitqc/internal/tabular"
	"transitqc/internal/transit"
)

// LineTotal is a line's passenger total over the summary window.
type LineTotal struct {
	Line       string
	Passengers float64
}

// LineHeadway is a line's mean headway over the summary window.
type LineHeadway struct {
	Line        string
	MeanMinutes float64
}

// WeeklySummary covers the last seven calendar days of a passengers table.
type WeeklySummary struct {
	Start      time.Time
	End        time.Time
	Passengers []LineTotal   // descending by total
	Headways   []LineHeadway // ascending by mean
}

// BuildWeeklySummary computes totals for the seven days ending at the most
// recent date in the passengers table (both bounds inclusive, dates floored
// to midnight). The passengers table needs fecha, linea and pax_total
// columns. The headway table is optional; when given it needs line and
// avg_headway_min columns plus either a fecha column or a year_month column,
// in which case rows are dated at the first of their month.
func BuildWeeklySummary(passengers, headway *tabular.Table) (*WeeklySummary, error) {
	for _, col := range []string{"fecha", "linea", "pax_total"} {
		if !passengers.HasColumn(col) {
			return nil, fmt.Errorf("passengers table missing column '%s'", col)
		}
	}

	var end time.Time
	dates := make([]time.Time, passengers.NumRows())
	for i := 0; i < passengers.NumRows(); i++ {
		d, ok := tabular.ParseDate(passengers.Cell(i, "fecha"))
		if !ok {
			continue
		}
		d = tabular.FloorToFrequency(d, "D")
		dates[i] = d
		if d.After(end) {
			end = d
		}
	}
	if end.IsZero() {
		return nil, fmt.Errorf("passengers table has no parseable dates")
	}
	start := end.AddDate(0, 0, -6)

	inWindow := func(d time.Time) bool {
		return !d.IsZero() && !d.Before(start) && !d.After(end)
	}

	totals := make(map[string]float64)
	for i := 0; i < passengers.NumRows(); i++ {
		if !inWindow(dates[i]) {
			continue
		}
		line := transit.NormalizeLine(passengers.Cell(i, "linea"))
		totals[line] += tabular.CoerceNumber(passengers.Cell(i, "pax_total"))
	}

	summary := &WeeklySummary{Start: start, End: end}
	for line, total := range totals {
		summary.Passengers = append(summary.Passengers, LineTotal{Line: line, Passengers: total})
	}
	sort.Slice(summary.Passengers, func(i, j int) bool {
		if summary.Passengers[i].Passengers != summary.Passengers[j].Passengers {
			return summary.Passengers[i].Passengers > summary.Passengers[j].Passengers
		}
		return summary.Passengers[i].Line < summary.Passengers[j].Line
	})

	if headway != nil {
		headways, err := windowedHeadways(headway, start, end)
		if err != nil {
			return nil, err
		}
		summary.Headways = headways
	}

	return summary, nil
}

func windowedHeadways(t *tabular.Table, start, end time.Time) ([]LineHeadway, error) {
	for _, col := range []string{"line", "avg_headway_min"} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("headway table missing column '%s'", col)
		}
	}
	hasFecha := t.HasColumn("fecha")
	if !hasFecha && !t.HasColumn("year_month") {
		return nil, fmt.Errorf("headway table needs a 'fecha' or 'year_month' column")
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 0; i < t.NumRows(); i++ {
		var d time.Time
		if hasFecha {
			parsed, ok := tabular.ParseDate(t.Cell(i, "fecha"))
			if !ok {
				continue
			}
			d = tabular.FloorToFrequency(parsed, "D")
		} else {
			month, err := time.Parse("2006-01", strings.TrimSpace(t.Cell(i, "year_month")))
			if err != nil {
				continue
			}
			d = month
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		v, ok := tabular.ParseNumber(t.Cell(i, "avg_headway_min"))
		if !ok {
			continue
		}
		line := transit.NormalizeLine(t.Cell(i, "line"))
		sums[line] += v
		counts[line]++
	}

	var headways []LineHeadway
	for line, sum := range sums {
		headways = append(headways, LineHeadway{Line: line, MeanMinutes: sum / float64(counts[line])})
	}
	sort.Slice(headways, func(i, j int) bool {
		if headways[i].MeanMinutes != headways[j].MeanMinutes {
			return headways[i].MeanMinutes < headways[j].MeanMinutes
		}
		return headways[i].Line < headways[j].Line
	})
	return headways, nil
}

// Markdown renders the summary as the weekly report document.
func (s *WeeklySummary) Markdown() string {
	printer := message.NewPrinter(language.English)

	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Summary (%s to %s)\n\n",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))

	b.WriteString("## Passengers by line (last 7 days)\n\n")
	if len(s.Passengers) == 0 {
		b.WriteString("No passenger data in the window.\n")
	}
	for _, lt := range s.Passengers {
		printer.Fprintf(&b, "- %s: %d\n", lt.Line, int64(lt.Passengers))
	}

	if len(s.Headways) > 0 {
		b.WriteString("\n## Average headway by line\n\n")
		for _, lh := range s.Headways {
			fmt.Fprintf(&b, "- %s: %.2f min\n", lh.Line, lh.MeanMinutes)
		}
	}

	return b.String()
}

// ReportFilename names a weekly report written at the given instant.
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("weekly_summary_%s.md", now.Format("20060102_1504"))
}
