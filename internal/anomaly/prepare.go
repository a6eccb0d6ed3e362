package anomaly

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"transitqc/internal/tabular"
)

// ErrMissingColumns indicates the input table lacks the configured date or
// value column.
var ErrMissingColumns = errors.New("missing required columns")

// Point is one bucketed observation. Station is empty when the series was
// built without station detail.
type Point struct {
	Station string
	Bucket  time.Time
	Value   float64
}

// Series is a prepared, aggregated ridership series ordered by station and
// bucket. ByStation records whether the source table carried the configured
// station column.
type Series struct {
	Points    []Point
	ByStation bool
}

// PrepareSeries turns a raw table into a scoring-ready series: headers are
// matched case-insensitively, dates are parsed day-first (rows with
// unparseable dates are dropped), values coerce leniently with blanks
// counting as zero, timestamps floor to the configured frequency, and values
// sum per bucket (and per station when that column exists).
func PrepareSeries(t *tabular.Table, cfg Config) (*Series, error) {
	cfg = cfg.normalized()

	// Header lookup tolerates case and padding but nothing else; this stage
	// receives cleaned feeds, not arbitrary spreadsheets.
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[strings.ToLower(strings.TrimSpace(c))] = i
	}

	dateIdx, hasDate := index[cfg.DateColumn]
	valueIdx, hasValue := index[cfg.ValueColumn]
	if !hasDate || !hasValue {
		return nil, fmt.Errorf("%w: table must contain '%s' and '%s'",
			ErrMissingColumns, cfg.DateColumn, cfg.ValueColumn)
	}
	stationIdx, hasStation := index[cfg.StationColumn]

	type groupKey struct {
		station string
		bucket  time.Time
	}
	sums := make(map[groupKey]float64)

	for _, row := range t.Rows {
		if dateIdx >= len(row) {
			continue
		}
		ts, ok := tabular.ParseDate(row[dateIdx])
		if !ok {
			continue
		}

		value := 0.0
		if valueIdx < len(row) {
			value = tabular.CoerceNumber(row[valueIdx])
		}

		key := groupKey{bucket: tabular.FloorToFrequency(ts, cfg.Frequency)}
		if hasStation && stationIdx < len(row) {
			key.station = strings.TrimSpace(row[stationIdx])
		}
		sums[key] += value
	}

	points := make([]Point, 0, len(sums))
	for key, sum := range sums {
		points = append(points, Point{Station: key.station, Bucket: key.bucket, Value: sum})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Station != points[j].Station {
			return points[i].Station < points[j].Station
		}
		return points[i].Bucket.Before(points[j].Bucket)
	})

	return &Series{Points: points, ByStation: hasStation}, nil
}
