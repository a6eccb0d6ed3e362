// Package transit holds shared knowledge about the Buenos Aires subte
// network: canonical line codes and normalization of the free-form line
// labels that appear in upstream feeds.
package transit

import (
	"regexp"
	"strings"
)

// PremetroLine is the code used for the Premetro light-rail branch.
const PremetroLine = "P"

var knownLines = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "H": true,
	PremetroLine: true,
}

var (
	premetroPattern = regexp.MustCompile(`(?i)premetro`)
	lineaPattern    = regexp.MustCompile(`[Ll][ií]ne?a\s*([A-Za-z])`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
)

// SubteLines returns the underground line codes in canonical order, without
// the Premetro.
func SubteLines() []string {
	return []string{"A", "B", "C", "D", "E", "H"}
}

// IsKnownLine reports whether code names a line of the network.
func IsKnownLine(code string) bool {
	return knownLines[code]
}

// NormalizeLine maps a free-form line label to its canonical single-letter
// code. Labels mentioning the Premetro win over anything else; "Linea X"
// spellings (with or without the accent) yield their letter; a bare known
// letter is upper-cased; otherwise the first ASCII letter decides if it
// names a known line. Labels that resolve to nothing come back trimmed but
// unchanged, so callers can log them.
func NormalizeLine(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if premetroPattern.MatchString(s) {
		return PremetroLine
	}
	if m := lineaPattern.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	if len(s) == 1 {
		if upper := strings.ToUpper(s); knownLines[upper] {
			return upper
		}
	}
	if letter := letterPattern.FindString(s); letter != "" {
		if upper := strings.ToUpper(letter); knownLines[upper] {
			return upper
		}
	}
	return s
}
