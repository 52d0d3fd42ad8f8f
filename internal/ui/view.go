package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nconklindev/sheetscope/internal/session"
	"github.com/nconklindev/sheetscope/internal/types"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	maxColumnWidth = 30
	minColumnWidth = 4
	chartLabelSize = 20
)

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Sheetscope"))
	s.WriteString("\n")

	switch m.state {
	case stateFilePicker:
		s.WriteString(SubtitleStyle.Render("Select a CSV, XLSX or XLS file"))
		s.WriteString("\n")
		if msg := m.session.Err(); msg != "" {
			s.WriteString(ErrorStyle.Render("✗ " + msg))
			s.WriteString("\n\n")
		}
		s.WriteString(m.filepicker.View())
		help := "↑/↓: navigate • enter: select • q: quit"
		if m.session.State() == session.StateLoaded {
			help = "↑/↓: navigate • enter: select • esc: back • q: quit"
		}
		s.WriteString(HelpStyle.Render(help))

	case stateLoading:
		s.WriteString(SubtitleStyle.Render(m.selectedFile))
		s.WriteString("\n")
		s.WriteString(fmt.Sprintf("%s Reading file...", m.spinner.View()))

	case stateGrid:
		s.WriteString(m.header())
		if m.searching || m.search.Value() != "" {
			s.WriteString(m.search.View())
			s.WriteString("\n")
		}
		s.WriteString(m.grid.View())
		s.WriteString("\n")
		s.WriteString(m.footer())
		s.WriteString(HelpStyle.Render(m.help.View(gridHelp{m.keys})))

	case stateChart:
		s.WriteString(m.header())
		s.WriteString(m.chartView())
		s.WriteString(m.footer())
		s.WriteString(HelpStyle.Render(m.help.View(chartHelp{m.keys})))

	case stateColumns:
		s.WriteString(m.header())
		s.WriteString(m.columnsView())
		s.WriteString(HelpStyle.Render(m.help.View(columnsHelp{m.keys})))
	}

	return s.String()
}

// header renders the file name and one tab per sheet.
func (m Model) header() string {
	wb := m.session.Workbook()
	if wb == nil {
		return ""
	}

	tabs := make([]string, 0, len(wb.Sheets))
	for i, name := range wb.SheetNames() {
		if i == m.session.ActiveIndex() {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, TabStyle.Render(name))
		}
	}

	return SubtitleStyle.Render(wb.FileName) + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n"
}

func (m Model) footer() string {
	var s strings.Builder
	v := m.session.Derive()

	status := fmt.Sprintf("%d of %d rows", v.Matches, len(v.Sheet.Rows))
	if v.Truncated {
		status += fmt.Sprintf(", showing first %d", len(v.Shown))
	}
	if col, ok := m.currentColumn(); ok {
		status += fmt.Sprintf(" • %s (%s)", m.session.DisplayHeader(col), v.ColumnTypes[col])
	}
	if hidden := len(v.Sheet.Headers) - len(v.Visible); hidden > 0 {
		status += fmt.Sprintf(" • %d hidden", hidden)
	}
	s.WriteString(StatusStyle.Render(status))
	s.WriteString("\n")

	if msg := m.session.Err(); msg != "" {
		s.WriteString(ErrorStyle.Render("✗ " + msg))
		s.WriteString("\n")
	} else if m.status != "" {
		s.WriteString(SuccessStyle.Render("✓ " + m.status))
		s.WriteString("\n")
	}
	return s.String()
}

// refreshGrid rebuilds the table columns and rows from the derived view.
// Only the window of columns around the column cursor that fits the
// terminal width is shown.
func (m *Model) refreshGrid() {
	v := m.session.Derive()
	sort := m.session.View().Sort

	widths := make([]int, len(v.Visible))
	for i, col := range v.Visible {
		w := runewidth.StringWidth(m.session.DisplayHeader(col)) + 2
		for _, row := range v.Shown {
			w = max(w, runewidth.StringWidth(row[col].String()))
		}
		widths[i] = min(max(w, minColumnWidth), maxColumnWidth)
	}

	start, end := columnWindow(widths, m.colCursor, m.width)

	var columns []table.Column
	for i := start; i < end; i++ {
		col := v.Visible[i]
		title := m.session.DisplayHeader(col)
		if sort.Active() && sort.Column == col {
			if sort.Direction == types.SortAscending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		if i == m.colCursor {
			title = "›" + title
		}
		columns = append(columns, table.Column{Title: title, Width: widths[i]})
	}

	rows := make([]table.Row, len(v.Shown))
	for r, cells := range v.Shown {
		row := make(table.Row, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, cells[v.Visible[i]].String())
		}
		rows[r] = row
	}

	// Rows must never be wider than the column set while it changes.
	m.grid.SetRows(nil)
	m.grid.SetColumns(columns)
	m.grid.SetRows(rows)

	if m.height > 0 {
		extra := 10
		if m.help.ShowAll {
			extra += 3
		}
		if m.searching || m.search.Value() != "" {
			extra++
		}
		m.grid.SetHeight(max(m.height-extra, 3))
	}
	if m.width > 0 {
		m.grid.SetWidth(m.width)
		m.bar.Width = max(m.width-chartLabelSize-16, 10)
	}

	if c := m.grid.Cursor(); c >= len(rows) {
		m.grid.SetCursor(max(len(rows)-1, 0))
	}
}

// columnWindow returns the half-open range of columns that fit in width
// while keeping cursor in view. A zero width means unlimited.
func columnWindow(widths []int, cursor, width int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}
	if width <= 0 {
		return 0, len(widths)
	}
	cursor = min(max(cursor, 0), len(widths)-1)

	// Each column also takes two cells of padding.
	start, used := cursor, widths[cursor]+2
	for start > 0 && used+widths[start-1]+2 <= width {
		start--
		used += widths[start] + 2
	}
	end := cursor + 1
	for end < len(widths) && used+widths[end]+2 <= width {
		used += widths[end] + 2
		end++
	}
	return start, end
}

func (m Model) chartView() string {
	v := m.session.Derive()
	var s strings.Builder

	if v.Category < 0 || v.Value < 0 {
		s.WriteString(BoxStyle.Render("No categorical and numeric column pair to plot.\nPress x and n to pick the axes."))
		s.WriteString("\n")
		return s.String()
	}

	s.WriteString(SelectedStyle.Render(m.session.DisplayHeader(v.Value)))
	s.WriteString(SubtitleStyle.Render(" by "))
	s.WriteString(SelectedStyle.Render(m.session.DisplayHeader(v.Category)))
	s.WriteString("\n\n")

	if !v.ChartReady() {
		s.WriteString(StatusStyle.Render("No rows have both a category and a numeric value."))
		s.WriteString("\n")
		return s.String()
	}

	peak := 0.0
	for _, c := range v.Chart {
		peak = max(peak, abs(c.Value))
	}
	for _, c := range v.Chart {
		frac := 0.0
		if peak > 0 {
			frac = abs(c.Value) / peak
		}
		label := runewidth.FillRight(runewidth.Truncate(c.Category, chartLabelSize, "…"), chartLabelSize)
		s.WriteString(UnselectedStyle.Render(label))
		s.WriteString(" ")
		s.WriteString(m.bar.ViewAs(frac))
		s.WriteString(" ")
		s.WriteString(CheckedStyle.Render(strconv.FormatFloat(c.Value, 'f', -1, 64)))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	return s.String()
}

func (m Model) columnsView() string {
	v := m.session.Derive()
	hidden := m.session.View().Hidden
	var s strings.Builder

	s.WriteString(SubtitleStyle.Render("Show or hide columns"))
	s.WriteString("\n")

	for i := range v.Sheet.Headers {
		cursor := "  "
		if i == m.panelCursor {
			cursor = "> "
		}
		checkbox := "[✓]"
		if i < len(hidden) && hidden[i] {
			checkbox = "[ ]"
		}

		name := m.session.DisplayHeader(i)
		typ := v.ColumnTypes[i].String()
		line := fmt.Sprintf("%s %s %s", checkbox, name, TypeStyles[typ].Render(typ))
		if i == m.panelCursor {
			s.WriteString(SelectedStyle.Render(cursor) + line)
		} else {
			s.WriteString(UnselectedStyle.Render(cursor) + line)
		}
		s.WriteString("\n")
	}
	return s.String()
}

// copySelectedRow writes the highlighted row as tab separated text to the
// terminal clipboard.
func (m Model) copySelectedRow() tea.Cmd {
	v := m.session.Derive()
	idx := m.grid.Cursor()
	if idx < 0 || idx >= len(v.Shown) {
		return nil
	}

	fields := make([]string, len(v.Visible))
	for i, col := range v.Visible {
		fields[i] = v.Shown[idx][col].String()
	}
	text := strings.Join(fields, "\t")

	return func() tea.Msg {
		_, err := osc52.New(text).WriteTo(os.Stderr)
		return rowCopiedMsg{err: err}
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
