package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a data file into a table, dispatching on the file extension.
// Supported formats: .csv, .xlsx, .parquet.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	case ".parquet":
		return ReadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}
