// Package session holds the state of one viewing session: the loaded
// workbook, the active sheet and the per-sheet view selections. Every
// transition returns a new Session value and leaves the receiver untouched.
package session

import (
	"log/slog"
	"slices"

	"github.com/nconklindev/sheetscope/internal/analysis"
	"github.com/nconklindev/sheetscope/internal/loader"
	"github.com/nconklindev/sheetscope/internal/types"

	"github.com/google/uuid"
)

type State int

const (
	StateNoFile State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "no-file"
}

const (
	DefaultRowLimit = 200

	UnsupportedFileMessage = "Unsupported file type. Choose an .xlsx, .xls or .csv file."
	LoadErrorMessage       = "Could not read the file. Is it a valid spreadsheet?"
)

// ViewState is scoped to the active sheet and reset whenever it changes.
type ViewState struct {
	Search   string
	Sort     types.SortKey
	Hidden   []bool
	Category int
	Value    int
}

type Session struct {
	state       State
	workbook    *types.Workbook
	active      int
	columnTypes []types.ColumnType
	view        ViewState
	pending     string
	errMsg      string
	rowLimit    int
	topN        int
}

// New returns an empty session. Non-positive limits fall back to defaults.
func New(rowLimit, topN int) Session {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}
	if topN <= 0 {
		topN = analysis.DefaultTopN
	}
	return Session{
		rowLimit: rowLimit,
		topN:     topN,
		view:     ViewState{Sort: types.NoSort, Category: -1, Value: -1},
	}
}

func (s Session) State() State { return s.state }

func (s Session) Workbook() *types.Workbook { return s.workbook }

func (s Session) ActiveIndex() int { return s.active }

func (s Session) ColumnTypes() []types.ColumnType { return s.columnTypes }

func (s Session) View() ViewState { return s.view }

// Err is the message to show the user for the last failure, if any.
func (s Session) Err() string { return s.errMsg }

func (s Session) PendingLoad() string { return s.pending }

func (s Session) Loading() bool { return s.pending != "" }

func (s Session) RowLimit() int { return s.rowLimit }

func (s Session) TopN() int { return s.topN }

func (s Session) ClearError() Session {
	s.errMsg = ""
	return s
}

// ActiveSheet returns the sheet being viewed, if any.
func (s Session) ActiveSheet() (types.Sheet, bool) {
	if s.workbook == nil || s.active < 0 || s.active >= len(s.workbook.Sheets) {
		return types.Sheet{}, false
	}
	return s.workbook.Sheets[s.active], true
}

// BeginLoad validates the file name and registers a new pending load,
// superseding any load still in flight. An unsupported extension is
// reported without touching the loaded workbook or view state.
func (s Session) BeginLoad(path string) (Session, string, error) {
	if _, err := loader.DetectFormat(path); err != nil {
		s.errMsg = UnsupportedFileMessage
		slog.Warn("rejected file", "path", path, "error", err)
		return s, "", err
	}

	id := uuid.NewString()
	if s.pending != "" {
		slog.Debug("superseding load", "previous", s.pending, "load_id", id)
	}
	s.pending = id
	s.errMsg = ""
	slog.Debug("load started", "path", path, "load_id", id)
	return s, id, nil
}

// CompleteLoad applies the result of a load. Results for anything other
// than the pending load are ignored and reported as not applied. A failed
// load leaves the previous workbook and view state in place.
func (s Session) CompleteLoad(id string, wb *types.Workbook, err error) (Session, bool) {
	if id == "" || id != s.pending {
		slog.Debug("dropping stale load result", "load_id", id, "pending", s.pending)
		return s, false
	}
	s.pending = ""

	if err == nil && (wb == nil || len(wb.Sheets) == 0) {
		err = loader.ErrParse
	}
	if err != nil {
		s.errMsg = LoadErrorMessage
		slog.Warn("load failed", "load_id", id, "error", err)
		return s, true
	}

	s.workbook = wb
	s.state = StateLoaded
	s.errMsg = ""
	slog.Info("workbook loaded", "load_id", id, "file", wb.FileName, "sheets", len(wb.Sheets))
	return s.activate(0), true
}

// SelectSheet switches the active sheet and resets the view state.
// Out-of-range indices are ignored.
func (s Session) SelectSheet(i int) Session {
	if s.workbook == nil || i < 0 || i >= len(s.workbook.Sheets) {
		return s
	}
	return s.activate(i)
}

func (s Session) NextSheet() Session {
	if s.workbook == nil || len(s.workbook.Sheets) == 0 {
		return s
	}
	return s.activate((s.active + 1) % len(s.workbook.Sheets))
}

func (s Session) PrevSheet() Session {
	if s.workbook == nil || len(s.workbook.Sheets) == 0 {
		return s
	}
	n := len(s.workbook.Sheets)
	return s.activate((s.active - 1 + n) % n)
}

func (s Session) activate(i int) Session {
	s.active = i
	sheet := s.workbook.Sheets[i]
	s.columnTypes = analysis.ClassifySheet(sheet)
	cat, val := analysis.DefaultAxes(s.columnTypes)
	s.view = ViewState{
		Sort:     types.NoSort,
		Hidden:   make([]bool, len(sheet.Headers)),
		Category: cat,
		Value:    val,
	}
	return s
}

func (s Session) SetSearch(query string) Session {
	s.view.Search = query
	return s
}

func (s Session) SetSort(key types.SortKey) Session {
	s.view.Sort = key
	return s
}

// ToggleSort cycles the sort on col through ascending, descending and off.
func (s Session) ToggleSort(col int) Session {
	if !s.validColumn(col) {
		return s
	}
	s.view.Sort = s.view.Sort.Toggle(col)
	return s
}

func (s Session) ToggleColumn(col int) Session {
	if !s.validColumn(col) {
		return s
	}
	hidden := slices.Clone(s.view.Hidden)
	hidden[col] = !hidden[col]
	s.view.Hidden = hidden
	return s
}

func (s Session) ShowAllColumns() Session {
	s.view.Hidden = make([]bool, len(s.view.Hidden))
	return s
}

// SetChartAxes sets the category and value columns; -1 unsets an axis.
func (s Session) SetChartAxes(category, value int) Session {
	if category != -1 && !s.validColumn(category) {
		return s
	}
	if value != -1 && !s.validColumn(value) {
		return s
	}
	s.view.Category = category
	s.view.Value = value
	return s
}

// CycleCategoryAxis moves the category axis to the next column. Any column
// can be grouped on.
func (s Session) CycleCategoryAxis() Session {
	n := len(s.columnTypes)
	if n == 0 {
		return s
	}
	s.view.Category = (s.view.Category + 1) % n
	return s
}

// CycleValueAxis moves the value axis to the next numeric column.
func (s Session) CycleValueAxis() Session {
	n := len(s.columnTypes)
	for step := 1; step <= n; step++ {
		i := (s.view.Value + step + n) % n
		if s.columnTypes[i] == types.ColumnNumeric {
			s.view.Value = i
			return s
		}
	}
	return s
}

func (s Session) validColumn(col int) bool {
	return col >= 0 && col < len(s.view.Hidden)
}

// DisplayHeader returns the label for column i of the active sheet.
func (s Session) DisplayHeader(i int) string {
	sheet, _ := s.ActiveSheet()
	return sheet.HeaderLabel(i)
}
