package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nconklindev/sheetscope/internal/loader"
	"github.com/nconklindev/sheetscope/internal/report"
	"github.com/nconklindev/sheetscope/internal/session"
	"github.com/nconklindev/sheetscope/internal/types"
)

// Inspect flag values.
var (
	inspectSheet    string
	inspectSearch   string
	inspectSortCol  string
	inspectDesc     bool
	inspectLimit    int
	inspectNoRows   bool
	inspectChart    bool
	inspectCategory string
	inspectValue    string
	inspectTop      int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print a sheet summary, matching rows and chart without the TUI",
	Long: `Inspect loads a spreadsheet and prints its column types, the rows that
match the search and sort options, and optionally the aggregated chart.

Sheets and columns may be given by name or by 1-based position.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectSheet, "sheet", "", "sheet name or 1-based index")
	f.StringVar(&inspectSearch, "search", "", "only show rows with a cell containing this text")
	f.StringVar(&inspectSortCol, "sort-col", "", "sort rows by this column")
	f.BoolVar(&inspectDesc, "desc", false, "sort descending")
	f.IntVar(&inspectLimit, "limit", 0, "maximum rows to print (default: row_limit)")
	f.BoolVar(&inspectNoRows, "no-rows", false, "do not print rows")
	f.BoolVar(&inspectChart, "chart", false, "print the aggregated bar chart")
	f.StringVar(&inspectCategory, "category", "", "chart category column")
	f.StringVar(&inspectValue, "value", "", "chart value column")
	f.IntVar(&inspectTop, "top", 0, "number of chart bars (default: chart_top_n)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(stderr)
	if err != nil {
		return exitError(ExitInvalidArgs, "open log file: %v", err)
	}
	defer closeLog()

	limit, topN := cfg.RowLimit, cfg.ChartTopN
	if cmd.Flags().Changed("limit") {
		if inspectLimit <= 0 {
			return exitError(ExitInvalidArgs, "--limit must be positive, got %d", inspectLimit)
		}
		limit = inspectLimit
	}
	if cmd.Flags().Changed("top") {
		if inspectTop <= 0 {
			return exitError(ExitInvalidArgs, "--top must be positive, got %d", inspectTop)
		}
		topN = inspectTop
	}

	s, err := loadSession(cmd, args[0], session.New(limit, topN))
	if err != nil {
		return err
	}

	s, err = applyInspectFlags(s)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	opts := report.Options{Chart: inspectChart}
	if inspectNoRows {
		opts.Rows = -1
	}
	return report.Render(cmd.OutOrStdout(), s, opts)
}

// loadSession runs one load through the session so the CLI reports the
// same messages as the viewer.
func loadSession(cmd *cobra.Command, path string, s session.Session) (session.Session, error) {
	s, id, err := s.BeginLoad(path)
	if err != nil {
		return s, exitError(ExitInvalidArgs, "%s: %s", path, s.Err())
	}

	wb, err := loader.LoadFile(cmd.Context(), path, cfg.LoaderOptions())
	s, _ = s.CompleteLoad(id, wb, err)
	switch {
	case errors.Is(err, loader.ErrUnsupportedFileType):
		return s, exitError(ExitInvalidArgs, "%s: %s", path, session.UnsupportedFileMessage)
	case err != nil:
		slog.Debug("inspect load failed", "path", path, "error", err)
		return s, exitError(ExitParseFailure, "%s: %s (%v)", path, s.Err(), err)
	}
	return s, nil
}

func applyInspectFlags(s session.Session) (session.Session, error) {
	if inspectSheet != "" {
		i, err := resolveIndex(s.Workbook().SheetNames(), inspectSheet)
		if err != nil {
			return s, fmt.Errorf("sheet: %w", err)
		}
		s = s.SelectSheet(i)
	}

	sheet, _ := s.ActiveSheet()
	headers := make([]string, len(sheet.Headers))
	for i := range headers {
		headers[i] = sheet.HeaderLabel(i)
	}

	s = s.SetSearch(inspectSearch)

	if inspectSortCol != "" {
		col, err := resolveIndex(headers, inspectSortCol)
		if err != nil {
			return s, fmt.Errorf("sort-col: %w", err)
		}
		dir := types.SortAscending
		if inspectDesc {
			dir = types.SortDescending
		}
		s = s.SetSort(types.SortKey{Column: col, Direction: dir})
	}

	category, value := s.View().Category, s.View().Value
	if inspectCategory != "" {
		col, err := resolveIndex(headers, inspectCategory)
		if err != nil {
			return s, fmt.Errorf("category: %w", err)
		}
		category = col
	}
	if inspectValue != "" {
		col, err := resolveIndex(headers, inspectValue)
		if err != nil {
			return s, fmt.Errorf("value: %w", err)
		}
		value = col
	}
	return s.SetChartAxes(category, value), nil
}

// resolveIndex finds ref among names, case-insensitively, falling back to
// a 1-based position.
func resolveIndex(names []string, ref string) (int, error) {
	for i, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(ref)) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(names) {
		return n - 1, nil
	}
	return 0, fmt.Errorf("%q not found (have %s)", ref, strings.Join(names, ", "))
}
