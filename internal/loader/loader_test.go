package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/sheetscope/internal/analysis"
	"github.com/nconklindev/sheetscope/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
		wantErr  bool
	}{
		{"CSV", "data.csv", FormatCSV, false},
		{"XLSX", "book.xlsx", FormatXLSX, false},
		{"XLS", "legacy.xls", FormatXLS, false},
		{"Path with dirs", "/tmp/a.b/report.csv", FormatCSV, false},
		{"PDF", "report.pdf", FormatUnknown, true},
		{"Uppercase suffix", "DATA.CSV", FormatUnknown, true},
		{"No extension", "data", FormatUnknown, true},
		{"Suffix in middle", "data.csv.bak", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.input)
			assert.Equal(t, tt.expected, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile_RejectsBeforeReading(t *testing.T) {
	// The file does not exist; an unsupported extension must fail first.
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "report.pdf"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseCSV_AlignsRows(t *testing.T) {
	data := []byte("Region, Amount ,Note\nEast,10\nWest,5,ok,extra\nEast,3,\n")

	wb, err := Parse(context.Background(), "sales.csv", data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	sheet := wb.Sheets[0]
	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"Region", "Amount", "Note"}, sheet.Headers)
	require.Len(t, sheet.Rows, 3)
	for i, row := range sheet.Rows {
		assert.Len(t, row, len(sheet.Headers), "row %d", i)
	}

	assert.True(t, sheet.Rows[0][2].IsAbsent(), "missing trailing cell is absent")
	assert.Equal(t, "ok", sheet.Rows[1][2].String())
	assert.True(t, sheet.Rows[2][2].IsAbsent(), "empty field is absent")
	assert.Equal(t, types.CellNumber, sheet.Rows[0][1].Kind)
	assert.InDelta(t, 10.0, sheet.Rows[0][1].Num, 1e-9)
	assert.Equal(t, types.CellString, sheet.Rows[0][0].Kind)
}

func TestParseCSV_Delimiters(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Semicolon", "a;b\n1;2\n"},
		{"Tab", "a\tb\n1\t2\n"},
		{"Comma", "a,b\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := Parse(context.Background(), "x.csv", []byte(tt.data), DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, wb.Sheets[0].Headers)
			assert.Equal(t, "2", wb.Sheets[0].Rows[0][1].String())
		})
	}
}

func TestParseCSV_Encodings(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("Città,Wert\nZürich,1\n")
	require.NoError(t, err)

	wb, err := Parse(context.Background(), "x.csv", []byte(latin), Options{CSVEncoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "Città", wb.Sheets[0].Headers[0])
	assert.Equal(t, "Zürich", wb.Sheets[0].Rows[0][0].String())

	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Value\nx,1\n")...)
	wb, err = Parse(context.Background(), "x.csv", bom, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Name", wb.Sheets[0].Headers[0])

	_, err = Parse(context.Background(), "x.csv", []byte("a\n"), Options{CSVEncoding: "klingon"})
	assert.ErrorIs(t, err, ErrParse)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(context.Background(), "x.csv", nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrParse)

	_, err = Parse(context.Background(), "x.csv", []byte("\n\n"), DefaultOptions())
	assert.ErrorIs(t, err, ErrParse)
}

func TestParse_HeaderOnly(t *testing.T) {
	wb, err := Parse(context.Background(), "x.csv", []byte("a,,c\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, wb.Sheets[0].Headers)
	assert.Empty(t, wb.Sheets[0].Rows)
	assert.Equal(t, "Column 2", wb.Sheets[0].HeaderLabel(1))
}

func newXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Region", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"East", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"West", 5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"East"}))

	_, err := f.NewSheet("Costs")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Costs", "A1", &[]any{"Item", "", "Cost"}))
	require.NoError(t, f.SetSheetRow("Costs", "A2", &[]any{"Paper", "x", 2.5}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	wb, err := Parse(context.Background(), "book.xlsx", newXLSX(t), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Sheet1", "Costs"}, wb.SheetNames())

	sales := wb.Sheets[0]
	assert.Equal(t, []string{"Region", "Amount"}, sales.Headers)
	require.Len(t, sales.Rows, 3)
	assert.InDelta(t, 10.0, sales.Rows[0][1].Num, 1e-9)
	assert.True(t, sales.Rows[2][1].IsAbsent())

	costs := wb.Sheets[1]
	assert.Equal(t, []string{"Item", "", "Cost"}, costs.Headers)
	assert.Equal(t, "2.5", costs.Rows[0][2].String())
}

func TestLoadFile_XLSXFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, newXLSX(t), 0o600))

	wb, err := LoadFile(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "book.xlsx", wb.FileName)
	assert.Len(t, wb.Sheets, 2)
}

// newFormattedXLSX stores plain numbers behind currency-style, percent and
// date number formats.
func newFormattedXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Region", "Amount", "Share", "Date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"East", 1234.5, 0.25, 45296}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"West", 2000, 0.5, 45297}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"East", 3000, 0.1, 45298}))

	for _, col := range []struct {
		from, to string
		numFmt   int
	}{
		{"B2", "B4", 4},
		{"C2", "C4", 9},
		{"D2", "D4", 14},
	} {
		style, err := f.NewStyle(&excelize.Style{NumFmt: col.numFmt})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle("Sheet1", col.from, col.to, style))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX_NumberFormats(t *testing.T) {
	wb, err := Parse(context.Background(), "sales.xlsx", newFormattedXLSX(t), DefaultOptions())
	require.NoError(t, err)
	sheet := wb.Sheets[0]
	require.Len(t, sheet.Rows, 3)

	amount := sheet.Rows[0][1]
	assert.Equal(t, types.CellNumber, amount.Kind)
	assert.Equal(t, "1,234.50", amount.String())
	assert.InDelta(t, 1234.5, amount.Num, 1e-9)

	share := sheet.Rows[0][2]
	assert.Equal(t, types.CellNumber, share.Kind)
	assert.Equal(t, "25%", share.String())
	assert.InDelta(t, 0.25, share.Num, 1e-9)

	date := sheet.Rows[0][3]
	assert.Equal(t, types.CellString, date.Kind)
	assert.True(t, analysis.IsDate(date.String()), "got %q", date.String())

	assert.Equal(t, []types.ColumnType{
		types.ColumnCategorical,
		types.ColumnNumeric,
		types.ColumnNumeric,
		types.ColumnDate,
	}, analysis.ClassifySheet(sheet))

	assert.Equal(t, []types.ChartRow{
		{Category: "East", Value: 4234.5},
		{Category: "West", Value: 2000},
	}, analysis.Aggregate(sheet.Rows, 0, 1, analysis.DefaultTopN))
}

func TestRawSheetCell(t *testing.T) {
	tests := []struct {
		name    string
		display string
		value   string
		kind    types.CellKind
		text    string
		num     float64
	}{
		{"plain number", "10", "10", types.CellNumber, "10", 10},
		{"formatted number", "$1,200.00", "1200", types.CellNumber, "$1,200.00", 1200},
		{"percent", "5%", "0.05", types.CellNumber, "5%", 0.05},
		{"date serial", "01-05-24", "45296", types.CellString, "01-05-24", 0},
		{"text", "East", "East", types.CellString, "East", 0},
		{"boolean", "TRUE", "1", types.CellString, "TRUE", 0},
		{"empty", "", "", types.CellAbsent, "", 0},
		{"value without display", "", "7", types.CellNumber, "7", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSheet{rows: [][]string{{tt.display}}, values: [][]string{{tt.value}}}
			c := raw.cell(0, 0)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.text, c.String())
			assert.InDelta(t, tt.num, c.Num, 1e-9)
		})
	}

	t.Run("display only", func(t *testing.T) {
		raw := rawSheet{rows: [][]string{{"1,200"}}}
		assert.Equal(t, types.CellString, raw.cell(0, 0).Kind)
		assert.True(t, raw.cell(3, 3).IsAbsent())
	})
}

func TestParseXLS_Fixture(t *testing.T) {
	wb, err := LoadFile(context.Background(), filepath.Join("testdata", "table.xls"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "table.xls", wb.FileName)
	assert.Equal(t, []string{"Table"}, wb.SheetNames())

	sheet := wb.Sheets[0]
	assert.Equal(t, []string{"Code", "Name", "Description"}, sheet.Headers)
	require.Len(t, sheet.Rows, 11)
	for i, row := range sheet.Rows {
		require.Len(t, row, len(sheet.Headers))
		n := i + 1
		assert.Equal(t, fmt.Sprintf("code%d", n), row[0].String())
		assert.Equal(t, fmt.Sprintf("name%d", n), row[1].String())
		assert.Equal(t, fmt.Sprintf("description%d", n), row[2].String())
	}
}

func TestTrimTrailingEmpty(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected [][]string
	}{
		{"Nothing to trim", [][]string{{"a"}, {"b"}}, [][]string{{"a"}, {"b"}}},
		{"Trailing nil and blank rows", [][]string{{"a"}, nil, {"", ""}}, [][]string{{"a"}}},
		{"Gap rows in the middle stay", [][]string{{"a"}, nil, {"b"}}, [][]string{{"a"}, nil, {"b"}}},
		{"All empty", [][]string{nil, {""}}, [][]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, trimTrailingEmpty(tt.rows))
		})
	}
}

func TestParse_CorruptInput(t *testing.T) {
	garbage := []byte("this is not a spreadsheet at all")

	for _, name := range []string{"book.xlsx", "book.xls"} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(context.Background(), name, garbage, DefaultOptions())
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, "book.xlsx", newXLSX(t), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParse_DetectHeaderRow(t *testing.T) {
	data := []byte("Weekly report,\n,\nName,Hours\nAlice,8\n")

	wb, err := Parse(context.Background(), "r.csv", data, Options{DetectHeaderRow: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Hours"}, wb.Sheets[0].Headers)
	require.Len(t, wb.Sheets[0].Rows, 1)
	assert.Equal(t, "Alice", wb.Sheets[0].Rows[0][0].String())

	wb, err = Parse(context.Background(), "r.csv", data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Weekly report", ""}, wb.Sheets[0].Headers)
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{"First row", [][]string{{"Name", "Hours"}, {"Alice", "8"}}, 0},
		{"After title", [][]string{{"Report"}, {"Name", "Hours", "Dept"}, {"Alice", "8", "IT"}}, 1},
		{"Numbers only", [][]string{{"1", "2"}, {"3", "4"}}, -1},
		{"Empty", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findHeaderRow(tt.rows))
		})
	}
}
