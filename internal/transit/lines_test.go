package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"premetro lowercase", "premetro", "P"},
		{"premetro with suffix", "Premetro E2", "P"},
		{"premetro uppercase", "PREMETRO", "P"},
		{"linea with space", "Linea A", "A"},
		{"linea accented lowercase", "línea d", "D"},
		{"linea without space", "LineaB", "B"},
		{"linea short spelling", "Lina c", "C"},
		{"bare letter", "b", "B"},
		{"bare letter upper", "H", "H"},
		{"leading known letter", "E - Bolívar", "E"},
		{"first letter unknown", "Subte-E ramal", "Subte-E ramal"},
		{"unknown bare letter", "Z", "Z"},
		{"number", "7", "7"},
		{"whitespace trimmed", "  Linea C  ", "C"},
		{"empty", "", ""},
		{"unrecognized label", "Tren Roca", "Tren Roca"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLine(tt.in))
		})
	}
}

func TestIsKnownLine(t *testing.T) {
	for _, code := range SubteLines() {
		assert.True(t, IsKnownLine(code))
	}
	assert.True(t, IsKnownLine(PremetroLine))
	assert.False(t, IsKnownLine("Z"))
	assert.False(t, IsKnownLine("a"), "codes are canonical upper-case")
}
