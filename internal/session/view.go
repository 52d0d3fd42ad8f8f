package session

import (
	"github.com/nconklindev/sheetscope/internal/analysis"
	"github.com/nconklindev/sheetscope/internal/types"
)

// View is everything the display needs, derived from the session.
type View struct {
	Sheet       types.Sheet
	ColumnTypes []types.ColumnType
	Visible     []int
	Rows        [][]types.Cell
	Shown       [][]types.Cell
	Matches     int
	Truncated   bool
	Category    int
	Value       int
	Chart       []types.ChartRow
}

// Derive recomputes the view from scratch. It has no side effects.
func (s Session) Derive() View {
	sheet, ok := s.ActiveSheet()
	if !ok {
		return View{Category: -1, Value: -1}
	}

	v := View{
		Sheet:       sheet,
		ColumnTypes: s.columnTypes,
		Category:    s.view.Category,
		Value:       s.view.Value,
	}

	for i := range sheet.Headers {
		if i < len(s.view.Hidden) && s.view.Hidden[i] {
			continue
		}
		v.Visible = append(v.Visible, i)
	}

	v.Rows = analysis.Process(sheet.Rows, s.view.Search, s.view.Sort)
	v.Matches = len(v.Rows)
	v.Shown = v.Rows
	if s.rowLimit > 0 && len(v.Shown) > s.rowLimit {
		v.Shown = v.Shown[:s.rowLimit]
		v.Truncated = true
	}

	v.Chart = analysis.Aggregate(sheet.Rows, s.view.Category, s.view.Value, s.topN)
	return v
}

// ChartReady reports whether both axes are set and there is data to plot.
func (v View) ChartReady() bool {
	return v.Category >= 0 && v.Value >= 0 && len(v.Chart) > 0
}
