package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseNumber parses a cell as a float. Empty, non-numeric and NaN cells
// report ok=false so statistical code can exclude them.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CoerceNumber converts a cell to a float, mapping anything unparseable to
// zero. Used where absent activity and bad data are deliberately conflated.
func CoerceNumber(s string) float64 {
	v := cast.ToFloat64(strings.TrimSpace(s))
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// FormatNumber renders a float for CSV output using the shortest exact
// decimal form. NaN becomes an empty cell.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBool renders a boolean for CSV output.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
