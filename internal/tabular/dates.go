package tabular

import (
	"strings"
	"time"
)

// dateLayouts lists the accepted date formats in priority order. Ambiguous
// numeric dates are read day-first, matching the convention of the source
// feeds (e.g. 03/05/2024 is May 3rd).
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006/01/02",
}

// ParseDate parses a date cell against the known layouts. It reports
// ok=false for cells no layout accepts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FloorToFrequency truncates a timestamp to the start of its bucket.
// Supported frequencies: "D" (calendar day), "H" (hour), "W" (ISO week,
// Monday start). Unknown frequencies fall back to daily.
func FloorToFrequency(t time.Time, freq string) time.Time {
	switch strings.ToUpper(strings.TrimSpace(freq)) {
	case "H":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case "W":
		return WeekStart(t)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// WeekStart returns the Monday at midnight of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
