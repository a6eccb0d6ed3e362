package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpecs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDatasetSpecs(t *testing.T) {
	path := writeSpecs(t, `
datasets:
  - source: data/raw/molinetes.csv
    z_threshold: 3.5
    expectation:
      name: molinetes
      expected_columns: [fecha, linea, estacion, pax_total]
      non_null_columns: [fecha, linea]
      numeric_columns: [pax_total]
      allowed_values:
        linea: [A, B, C, D, E, H]
      value_ranges:
        pax_total:
          min: 0
      unique_keys:
        - [fecha, linea, estacion]
      min_rows: 100
  - source: data/raw/headway.csv
    expectation:
      name: headway
      expected_columns: [year_month, line, avg_headway_min, source]
      value_ranges:
        avg_headway_min:
          min: 1
          max: 20
`)

	specs, err := LoadDatasetSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	first := specs[0]
	assert.Equal(t, "data/raw/molinetes.csv", first.Source)
	assert.Equal(t, 3.5, first.ZThreshold)
	assert.Equal(t, "molinetes", first.Expectation.Name)
	assert.Equal(t, []string{"fecha", "linea", "estacion", "pax_total"}, first.Expectation.ExpectedColumns)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "H"}, first.Expectation.AllowedValues["linea"])
	require.NotNil(t, first.Expectation.ValueRanges["pax_total"].Min)
	assert.Equal(t, 0.0, *first.Expectation.ValueRanges["pax_total"].Min)
	assert.Equal(t, [][]string{{"fecha", "linea", "estacion"}}, first.Expectation.UniqueKeys)
	assert.Equal(t, 100, first.Expectation.MinRows)

	second := specs[1]
	assert.Equal(t, 0.0, second.ZThreshold)
	require.NotNil(t, second.Expectation.ValueRanges["avg_headway_min"].Max)
	assert.Equal(t, 20.0, *second.Expectation.ValueRanges["avg_headway_min"].Max)
}

func TestLoadDatasetSpecsRequiresName(t *testing.T) {
	path := writeSpecs(t, `
datasets:
  - source: data/raw/molinetes.csv
    expectation:
      expected_columns: [fecha]
`)

	_, err := LoadDatasetSpecs(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no expectation name")
}

func TestLoadDatasetSpecsRequiresSource(t *testing.T) {
	path := writeSpecs(t, `
datasets:
  - expectation:
      name: molinetes
`)

	_, err := LoadDatasetSpecs(path)
	assert.Error(t, err)
}

func TestLoadDatasetSpecsEmptyFile(t *testing.T) {
	path := writeSpecs(t, "datasets: []\n")

	_, err := LoadDatasetSpecs(path)
	assert.Error(t, err)
}

func TestLoadDatasetSpecsMissingFile(t *testing.T) {
	_, err := LoadDatasetSpecs(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
