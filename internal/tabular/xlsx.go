package tabular

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first sheet of a workbook into a table. The first row
// is taken as the header.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return New(nil, nil), nil
	}

	header := rows[0]
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, padRow(row, len(header)))
	}
	return New(header, out), nil
}
