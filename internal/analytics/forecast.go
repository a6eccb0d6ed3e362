package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"transitqc/internal/tabular"
	"transitqc/internal/transit"
)

// DefaultHorizonWeeks is how far ahead the forecast extends.
const DefaultHorizonWeeks = 4

// minPointsForTrend is the observation count below which a line is
// forecast by carrying its last value instead of fitting a trend.
const minPointsForTrend = 6

// zBand is the multiplier for the ~90% prediction band.
const zBand = 1.64

// WeekPoint is one week's passenger total for a line, keyed by the Monday
// that starts the week.
type WeekPoint struct {
	Week  time.Time
	Value float64
}

// ForecastPoint is a projected weekly total with its prediction band.
type ForecastPoint struct {
	Line     string
	Week     time.Time
	Yhat     float64
	YhatLow  float64
	YhatHigh float64
}

// AggregateWeekly buckets a passengers table (fecha, linea, pax_total) into
// per-line weekly totals. Lines are normalized and unknown lines dropped;
// rows with unparseable dates are dropped; each line's points come back
// ordered by week.
func AggregateWeekly(t *tabular.Table) (map[string][]WeekPoint, error) {
	for _, col := range []string{"fecha", "linea", "pax_total"} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("passengers table missing column '%s'", col)
		}
	}

	type key struct {
		line string
		week time.Time
	}
	sums := make(map[key]float64)
	for i := 0; i < t.NumRows(); i++ {
		d, ok := tabular.ParseDate(t.Cell(i, "fecha"))
		if !ok {
			continue
		}
		line := transit.NormalizeLine(t.Cell(i, "linea"))
		if !transit.IsKnownLine(line) {
			continue
		}
		k := key{line: line, week: tabular.WeekStart(d)}
		sums[k] += tabular.CoerceNumber(t.Cell(i, "pax_total"))
	}

	byLine := make(map[string][]WeekPoint)
	for k, sum := range sums {
		byLine[k.line] = append(byLine[k.line], WeekPoint{Week: k.week, Value: sum})
	}
	for line := range byLine {
		points := byLine[line]
		sort.Slice(points, func(i, j int) bool { return points[i].Week.Before(points[j].Week) })
		byLine[line] = points
	}
	return byLine, nil
}

// Forecast projects every line forward by horizon weeks and returns the
// points sorted by (line, week). Lines with a short history are carried
// flat; the rest get a least-squares trend over their observation index
// with a band of ±1.64 residual standard deviations.
func Forecast(byLine map[string][]WeekPoint, horizon int) []ForecastPoint {
	if horizon <= 0 {
		horizon = DefaultHorizonWeeks
	}

	var out []ForecastPoint
	for line, points := range byLine {
		out = append(out, forecastLine(line, points, horizon)...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Week.Before(out[j].Week)
	})
	return out
}

func forecastLine(line string, points []WeekPoint, horizon int) []ForecastPoint {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1]

	if len(points) < minPointsForTrend {
		out := make([]ForecastPoint, horizon)
		for h := 1; h <= horizon; h++ {
			week := last.Week.AddDate(0, 0, 7*h)
			out[h-1] = ForecastPoint{
				Line: line, Week: week,
				Yhat: last.Value, YhatLow: last.Value, YhatHigh: last.Value,
			}
		}
		return out
	}

	n := len(points)
	slope, intercept := fitLine(points)

	var sq float64
	for i, p := range points {
		r := p.Value - (intercept + slope*float64(i))
		sq += r * r
	}
	sigma := math.Sqrt(sq / float64(n))

	out := make([]ForecastPoint, horizon)
	for h := 1; h <= horizon; h++ {
		idx := float64(n - 1 + h)
		yhat := intercept + slope*idx
		out[h-1] = ForecastPoint{
			Line:     line,
			Week:     last.Week.AddDate(0, 0, 7*h),
			Yhat:     yhat,
			YhatLow:  yhat - zBand*sigma,
			YhatHigh: yhat + zBand*sigma,
		}
	}
	return out
}

// fitLine runs an ordinary least-squares fit of value against the 0-based
// observation index.
func fitLine(points []WeekPoint) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// ForecastTable renders forecast points as a table ready for CSV export.
func ForecastTable(points []ForecastPoint) *tabular.Table {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			p.Line,
			p.Week.Format("2006-01-02"),
			tabular.FormatNumber(p.Yhat),
			tabular.FormatNumber(p.YhatLow),
			tabular.FormatNumber(p.YhatHigh),
		}
	}
	return tabular.New([]string{"line", "week", "yhat", "yhat_low", "yhat_high"}, rows)
}
