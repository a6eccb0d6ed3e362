package quality

import (
	"math"

	"transitqc/internal/tabular"
)

// DefaultZThreshold is the z-score cutoff used by the pipeline when a
// dataset does not override it.
const DefaultZThreshold = 4.0

// DetectNumericAnomalies flags rows whose value in a numeric column sits
// zThreshold or more population standard deviations from the column mean.
// Cells that do not parse as numbers are ignored, both for the statistics
// and for flagging. Columns that are absent, empty, or constant are skipped.
// The result maps each offending column to a table holding only its
// flagged rows; columns without outliers are not present.
func DetectNumericAnomalies(t *tabular.Table, numericColumns []string, zThreshold float64) map[string]*tabular.Table {
	anomalies := make(map[string]*tabular.Table)

	for _, col := range numericColumns {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			continue
		}

		var values []float64
		var rows []int
		for i, row := range t.Rows {
			cell := ""
			if idx < len(row) {
				cell = row[idx]
			}
			if v, ok := tabular.ParseNumber(cell); ok {
				values = append(values, v)
				rows = append(rows, i)
			}
		}
		if len(values) == 0 {
			continue
		}

		mean, std := meanStd(values)
		if std == 0 || math.IsNaN(std) {
			continue
		}

		var flagged [][]string
		for j, v := range values {
			if math.Abs(v-mean)/std >= zThreshold {
				src := t.Rows[rows[j]]
				row := make([]string, len(src))
				copy(row, src)
				flagged = append(flagged, row)
			}
		}
		if len(flagged) > 0 {
			anomalies[col] = tabular.New(t.Columns, flagged)
		}
	}

	return anomalies
}

// meanStd returns the mean and population standard deviation of values.
func meanStd(values []float64) (mean, std float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / n)
	return mean, std
}
