package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a delimited file into a table. The file is decoded as UTF-8
// first and re-decoded as Latin-1 when the bytes are not valid UTF-8, which
// covers legacy exports from the upstream feeds. Rows shorter than the
// header are padded with empty cells.
func ReadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("decode csv %s as latin-1: %w", path, decErr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, padRow(rec, len(header)))
	}
	return New(header, rows), nil
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	BOMPrefix bool // add a UTF-8 BOM for spreadsheet compatibility
}

// WriteCSV writes a table to a delimited file, creating the parent
// directory when needed. The header is always written.
func WriteCSV(path string, t *Table, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}

	if opts.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Columns); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(padRow(row, len(t.Columns))); err != nil {
			file.Close()
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush csv %s: %w", path, err)
	}
	return file.Close()
}

// padRow normalizes a record to the header width, padding short rows with
// empty cells and truncating long ones.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
