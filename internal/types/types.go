package types

import (
	"math"
	"strconv"
	"strings"
)

type CellKind int

const (
	CellAbsent CellKind = iota
	CellString
	CellNumber
)

// Cell is a single spreadsheet value. Text always holds the original
// rendering; Num is only meaningful when Kind is CellNumber.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

// Absent is the explicit "no value" cell.
var Absent = Cell{Kind: CellAbsent}

// NewCell builds a cell from raw text. Empty text is absent and text that
// parses as a finite number becomes a number cell.
func NewCell(raw string) Cell {
	if raw == "" {
		return Absent
	}
	if n, ok := ParseNumber(raw); ok {
		return Cell{Kind: CellNumber, Text: raw, Num: n}
	}
	return Cell{Kind: CellString, Text: raw}
}

func (c Cell) IsAbsent() bool {
	return c.Kind == CellAbsent
}

// String returns the display text of the cell; absent cells render empty.
func (c Cell) String() string {
	if c.Kind == CellAbsent {
		return ""
	}
	return c.Text
}

// Number reports the numeric value of the cell, parsing string cells.
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Num, true
	case CellString:
		return ParseNumber(c.Text)
	}
	return 0, false
}

// ParseNumber parses trimmed text as a finite float.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]Cell
}

// Column returns the cells of column i in row order.
func (s Sheet) Column(i int) []Cell {
	col := make([]Cell, 0, len(s.Rows))
	for _, row := range s.Rows {
		if i >= 0 && i < len(row) {
			col = append(col, row[i])
		}
	}
	return col
}

// HeaderLabel returns the header for display, defaulting blanks to "Column N".
func (s Sheet) HeaderLabel(i int) string {
	if i >= 0 && i < len(s.Headers) && s.Headers[i] != "" {
		return s.Headers[i]
	}
	return "Column " + strconv.Itoa(i+1)
}

type Workbook struct {
	FileName string
	Sheets   []Sheet
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

type ColumnType int

const (
	ColumnUnknown ColumnType = iota
	ColumnNumeric
	ColumnCategorical
	ColumnDate
)

func (t ColumnType) String() string {
	switch t {
	case ColumnNumeric:
		return "numeric"
	case ColumnCategorical:
		return "categorical"
	case ColumnDate:
		return "date"
	default:
		return "unknown"
	}
}

type Direction int

const (
	SortNone Direction = iota
	SortAscending
	SortDescending
)

func (d Direction) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortKey selects a column and direction. Column -1 means unsorted.
type SortKey struct {
	Column    int
	Direction Direction
}

// NoSort is the cleared sort key.
var NoSort = SortKey{Column: -1, Direction: SortNone}

// Active reports whether both a column and a direction are set.
func (k SortKey) Active() bool {
	return k.Column >= 0 && k.Direction != SortNone
}

// Toggle cycles none -> asc -> desc -> none for the same column. Picking a
// different column starts again at ascending.
func (k SortKey) Toggle(col int) SortKey {
	if !k.Active() || k.Column != col {
		return SortKey{Column: col, Direction: SortAscending}
	}
	if k.Direction == SortAscending {
		return SortKey{Column: col, Direction: SortDescending}
	}
	return NoSort
}

type ChartRow struct {
	Category string
	Value    float64
}
