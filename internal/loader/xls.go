package loader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/extrame/xls"
)

// readXLS decodes a legacy BIFF workbook. The decoder panics on some
// malformed input, so panics are turned into errors.
func readXLS(ctx context.Context, data []byte) (sheets []rawSheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("malformed XLS data: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	for i := 0; i < wb.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, max(row.LastCol(), 0))
			for c := max(row.FirstCol(), 0); c < len(cells); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, rawSheet{name: sheet.Name, rows: trimTrailingEmpty(rows)})
	}
	return sheets, nil
}

func trimTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
