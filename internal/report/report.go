// Package report renders session views as plain text for non-interactive use.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/nconklindev/sheetscope/internal/session"
	"github.com/nconklindev/sheetscope/internal/types"
)

const (
	barWidth   = 40
	labelWidth = 24
	cellWidth  = 30
)

var (
	colorNumeric     = color.New(color.FgGreen)
	colorCategorical = color.New(color.FgCyan)
	colorDate        = color.New(color.FgMagenta)
	colorUnknown     = color.New(color.FgHiBlack)
	colorBold        = color.New(color.Bold)
	colorWarn        = color.New(color.FgYellow)
)

type Options struct {
	// Chart adds the aggregated bar chart below the rows.
	Chart bool
	// Rows caps printed rows; 0 uses the session row limit, negative prints none.
	Rows int
}

// ColorColumnType colors a column type label.
func ColorColumnType(t types.ColumnType) string {
	switch t {
	case types.ColumnNumeric:
		return colorNumeric.Sprint(t)
	case types.ColumnCategorical:
		return colorCategorical.Sprint(t)
	case types.ColumnDate:
		return colorDate.Sprint(t)
	default:
		return colorUnknown.Sprint(t)
	}
}

// Render writes the active sheet summary, matching rows and optionally the chart.
func Render(w io.Writer, s session.Session, opts Options) error {
	v := s.Derive()
	wb := s.Workbook()
	if wb == nil {
		_, err := fmt.Fprintln(w, "no workbook loaded")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  sheet %d/%d: %s (%d rows)\n",
		colorBold.Sprint(wb.FileName), s.ActiveIndex()+1, len(wb.Sheets), v.Sheet.Name, len(v.Sheet.Rows))

	b.WriteString("\nColumns:\n")
	for i := range v.Sheet.Headers {
		fmt.Fprintf(&b, "  %s %s\n", pad(s.DisplayHeader(i), labelWidth), ColorColumnType(v.ColumnTypes[i]))
	}

	b.WriteString("\n")
	b.WriteString(matchLine(s, v))
	b.WriteString("\n")

	if opts.Rows >= 0 && len(v.Visible) > 0 {
		shown := v.Shown
		if opts.Rows > 0 && len(shown) > opts.Rows {
			shown = shown[:opts.Rows]
		}
		b.WriteString(renderRows(s, v.Visible, shown))
		b.WriteString("\n")
	}

	if opts.Chart {
		b.WriteString("\n")
		b.WriteString(renderChart(s, v))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func matchLine(s session.Session, v session.View) string {
	state := s.View()
	line := fmt.Sprintf("Rows: %d of %d", v.Matches, len(v.Sheet.Rows))
	if q := state.Search; q != "" {
		line += fmt.Sprintf(" match %q", q)
	}
	if state.Sort.Active() {
		line += fmt.Sprintf(", sorted by %s %s", s.DisplayHeader(state.Sort.Column), state.Sort.Direction)
	}
	if v.Truncated {
		line += colorWarn.Sprintf(" (showing first %d)", len(v.Shown))
	}
	return line
}

func renderRows(s session.Session, visible []int, rows [][]types.Cell) string {
	headers := make([]string, len(visible))
	for i, col := range visible {
		headers[i] = s.DisplayHeader(col)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, r := range rows {
		cells := make([]string, len(visible))
		for i, col := range visible {
			cells[i] = runewidth.Truncate(r[col].String(), cellWidth, "…")
		}
		t.Row(cells...)
	}
	return t.Render()
}

func renderChart(s session.Session, v session.View) string {
	if v.Category < 0 || v.Value < 0 {
		return "Chart: no categorical and numeric column pair to plot\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Chart: %s by %s\n", colorBold.Sprint(s.DisplayHeader(v.Value)), colorBold.Sprint(s.DisplayHeader(v.Category)))
	if len(v.Chart) == 0 {
		b.WriteString("  no rows with both a category and a numeric value\n")
		return b.String()
	}

	peak := 0.0
	for _, c := range v.Chart {
		peak = max(peak, abs(c.Value))
	}
	for _, c := range v.Chart {
		n := 0
		if peak > 0 {
			n = int(abs(c.Value) / peak * barWidth)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", pad(c.Category, labelWidth), strings.Repeat("█", n)+strings.Repeat(" ", barWidth-n), FormatNumber(c.Value))
	}
	return b.String()
}

// FormatNumber prints integers without a fraction and trims trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return runewidth.FillRight(s, width)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
