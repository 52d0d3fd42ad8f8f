package loader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX returns every sheet in workbook order with both the formatted
// cell text and the stored values.
func readXLSX(ctx context.Context, data []byte) ([]rawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX data")
	}

	sheets := make([]rawSheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		values, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, rawSheet{name: name, rows: rows, values: values})
	}
	return sheets, nil
}
