package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"transitqc/internal/tabular"
	"transitqc/internal/transit"
)

// EstimatePremetroWeekly derives weekly Premetro passenger totals, which the
// turnstile feed does not cover, from its monthly dispatch counts. For each
// month the passengers-per-train ratio observed across the subway lines is
// applied to the Premetro's dispatched trains; months without a ratio of
// their own use the median ratio. The estimated monthly total is spread
// evenly over the Mondays of the weeks touching the month and summed per
// week, so a week straddling two months collects a share from both.
//
// passengers needs fecha, linea and pax_total columns; dispatch needs
// year_month, line and dispatched_trains.
func EstimatePremetroWeekly(passengers, dispatch *tabular.Table) ([]WeekPoint, error) {
	for _, col := range []string{"fecha", "linea", "pax_total"} {
		if !passengers.HasColumn(col) {
			return nil, fmt.Errorf("passengers table missing column '%s'", col)
		}
	}
	for _, col := range []string{"year_month", "line", "dispatched_trains"} {
		if !dispatch.HasColumn(col) {
			return nil, fmt.Errorf("dispatch table missing column '%s'", col)
		}
	}

	subtePax := make(map[string]float64)
	for i := 0; i < passengers.NumRows(); i++ {
		d, ok := tabular.ParseDate(passengers.Cell(i, "fecha"))
		if !ok {
			continue
		}
		line := transit.NormalizeLine(passengers.Cell(i, "linea"))
		if !transit.IsKnownLine(line) || line == transit.PremetroLine {
			continue
		}
		subtePax[d.Format("2006-01")] += tabular.CoerceNumber(passengers.Cell(i, "pax_total"))
	}

	subteTrains := make(map[string]float64)
	premetroTrains := make(map[string]float64)
	for i := 0; i < dispatch.NumRows(); i++ {
		ym := strings.TrimSpace(dispatch.Cell(i, "year_month"))
		if _, err := time.Parse("2006-01", ym); err != nil {
			continue
		}
		trains, ok := tabular.ParseNumber(dispatch.Cell(i, "dispatched_trains"))
		if !ok || trains <= 0 {
			continue
		}
		line := transit.NormalizeLine(dispatch.Cell(i, "line"))
		switch {
		case line == transit.PremetroLine:
			premetroTrains[ym] += trains
		case transit.IsKnownLine(line):
			subteTrains[ym] += trains
		}
	}
	if len(premetroTrains) == 0 {
		return nil, fmt.Errorf("dispatch table has no premetro rows")
	}

	ratios := make(map[string]float64)
	var ratioValues []float64
	for ym, pax := range subtePax {
		if trains := subteTrains[ym]; trains > 0 && pax > 0 {
			ratios[ym] = pax / trains
			ratioValues = append(ratioValues, pax/trains)
		}
	}
	if len(ratioValues) == 0 {
		return nil, fmt.Errorf("no months with both subway passengers and dispatch data")
	}
	fallback := median(ratioValues)

	weekly := make(map[time.Time]float64)
	for ym, trains := range premetroTrains {
		ratio, ok := ratios[ym]
		if !ok {
			ratio = fallback
		}
		monthTotal := ratio * trains

		month, _ := time.Parse("2006-01", ym)
		mondays := mondaysTouching(month)
		share := monthTotal / float64(len(mondays))
		for _, monday := range mondays {
			weekly[monday] += share
		}
	}

	points := make([]WeekPoint, 0, len(weekly))
	for week, value := range weekly {
		points = append(points, WeekPoint{Week: week, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Week.Before(points[j].Week) })
	return points, nil
}

// mondaysTouching lists the Mondays of every week that overlaps the month.
// The first Monday may fall in the previous month.
func mondaysTouching(month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var mondays []time.Time
	for w := tabular.WeekStart(first); !w.After(last); w = w.AddDate(0, 0, 7) {
		mondays = append(mondays, w)
	}
	return mondays
}

// median returns the middle value of the inputs; the mean of the two middle
// values for even counts.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
