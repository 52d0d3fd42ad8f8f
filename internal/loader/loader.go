package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sheetscope/internal/analysis"
	"github.com/nconklindev/sheetscope/internal/types"
)

// RowDetectionLimit bounds how many leading rows header detection looks at.
const RowDetectionLimit = 20

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrParse               = errors.New("could not parse workbook")
)

type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatXLS
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatXLSX:
		return "XLSX"
	case FormatXLS:
		return "XLS"
	default:
		return "Unknown"
	}
}

// SupportedExtensions lists accepted suffixes. Matching is case-sensitive.
var SupportedExtensions = []string{".xlsx", ".xls", ".csv"}

type Options struct {
	// CSVEncoding names the charset of CSV input: utf-8, latin1 or windows-1252.
	CSVEncoding string
	// DetectHeaderRow scans the leading rows for the most header-like row
	// instead of always using the first one.
	DetectHeaderRow bool
}

func DefaultOptions() Options {
	return Options{CSVEncoding: "utf-8"}
}

type rawSheet struct {
	name string
	// rows holds display text.
	rows [][]string
	// values holds stored cell values parallel to rows. Nil when the format
	// has no distinction between the two.
	values [][]string
}

// cell builds the cell at row r, column c. Stored numbers keep their
// formatted text for display but take their value from the stored number.
// Date-formatted numbers and booleans (stored as 0/1) stay text.
func (raw rawSheet) cell(r, c int) types.Cell {
	display := textAt(raw.rows, r, c)
	if raw.values == nil {
		return types.NewCell(display)
	}

	value := textAt(raw.values, r, c)
	if display == "" {
		return types.NewCell(value)
	}
	n, ok := types.ParseNumber(value)
	if !ok || !strings.ContainsAny(display, "0123456789") || analysis.IsDate(display) {
		return types.NewCell(display)
	}
	return types.Cell{Kind: types.CellNumber, Text: display, Num: n}
}

func textAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// DetectFormat checks the file name suffix. It never touches the file.
func DetectFormat(name string) (Format, error) {
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(name, ".xls"):
		return FormatXLS, nil
	case strings.HasSuffix(name, ".csv"):
		return FormatCSV, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(name))
}

// LoadFile validates the extension, reads the file and parses it.
func LoadFile(ctx context.Context, path string, opts Options) (*types.Workbook, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Parse(ctx, filepath.Base(path), data, opts)
}

// Parse turns raw file bytes into a workbook. name is only used for format
// detection and labelling.
func Parse(ctx context.Context, name string, data []byte, opts Options) (*types.Workbook, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrParse)
	}

	var raws []rawSheet
	switch format {
	case FormatCSV:
		raws, err = readCSV(data, opts.CSVEncoding)
	case FormatXLSX:
		raws, err = readXLSX(ctx, data)
	case FormatXLS:
		raws, err = readXLS(ctx, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrParse)
	}

	wb := &types.Workbook{FileName: name, Sheets: make([]types.Sheet, 0, len(raws))}
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, buildSheet(raw, opts.DetectHeaderRow))
	}

	slog.Debug("workbook parsed", "file", name, "format", format, "sheets", len(wb.Sheets))
	return wb, nil
}

// buildSheet takes the header row, trims the labels and aligns every data
// row to the header length. Missing cells become absent; extra cells drop.
func buildSheet(raw rawSheet, detectHeader bool) types.Sheet {
	sheet := types.Sheet{Name: raw.name, Headers: []string{}, Rows: [][]types.Cell{}}
	if len(raw.rows) == 0 {
		return sheet
	}

	headerIdx := 0
	if detectHeader {
		if idx := findHeaderRow(raw.rows); idx >= 0 {
			headerIdx = idx
		}
	}

	headers := make([]string, len(raw.rows[headerIdx]))
	for i, h := range raw.rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}
	sheet.Headers = headers

	first := headerIdx + 1
	sheet.Rows = make([][]types.Cell, len(raw.rows)-first)
	for r := range sheet.Rows {
		aligned := make([]types.Cell, len(headers))
		for i := range aligned {
			aligned[i] = raw.cell(first+r, i)
		}
		sheet.Rows[r] = aligned
	}
	return sheet
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := min(len(rows), RowDetectionLimit)

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
