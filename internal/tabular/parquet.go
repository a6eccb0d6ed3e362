package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet persists a table as a Parquet file with one optional string
// column per table column. Parquet groups order fields by name, so the file
// carries columns sorted alphabetically rather than in table order.
func WriteParquet(path string, t *Table, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	group := parquet.Group{}
	for _, col := range t.Columns {
		group[col] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema(name, group)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet %s: %w", path, err)
	}

	writer := parquet.NewGenericWriter[any](file, schema)
	rows := make([]parquet.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) && row[j] != "" {
				rec[col] = row[j]
			} else {
				rec[col] = nil
			}
		}
		rows = append(rows, schema.Deconstruct(nil, rec))
	}
	if len(rows) > 0 {
		if _, err := writer.WriteRows(rows); err != nil {
			file.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}

// ReadParquet loads a Parquet file into a table, rendering every value as a
// string cell. Nulls become empty cells.
func ReadParquet(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}

	fields := pf.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name()
	}

	var out [][]string
	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, prow := range buf[:n] {
				rec := make([]string, len(columns))
				for _, val := range prow {
					ci := val.Column()
					if ci >= 0 && ci < len(rec) && !val.IsNull() {
						rec[ci] = stringifyValue(val)
					}
				}
				out = append(out, rec)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("read parquet rows: %w", err)
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}
	return New(columns, out), nil
}

func stringifyValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return FormatNumber(float64(v.Float()))
	case parquet.Double:
		return FormatNumber(v.Double())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
