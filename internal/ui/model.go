package ui

import (
	"context"
	"os"

	"github.com/nconklindev/sheetscope/internal/config"
	"github.com/nconklindev/sheetscope/internal/loader"
	"github.com/nconklindev/sheetscope/internal/session"
	"github.com/nconklindev/sheetscope/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateGrid
	stateChart
	stateColumns
)

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	initialFile  string
	session      session.Session
	opts         loader.Options
	keys         keyMap
	help         help.Model
	search       textinput.Model
	searching    bool
	grid         table.Model
	spinner      spinner.Model
	bar          progress.Model
	colCursor    int
	panelCursor  int
	status       string
	cancel       context.CancelFunc
	width        int
	height       int
}

type fileLoadedMsg struct {
	id   string
	data *types.Workbook
	err  error
}

type openFileMsg struct {
	path string
}

type rowCopiedMsg struct {
	err error
}

// InitialModel builds the UI from config. A non-empty path is opened on start.
func InitialModel(cfg config.Config, path string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = loader.SupportedExtensions
	fp.ShowHidden = cfg.ShowHidden
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(accentLight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(accentLight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(white)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search all cells"
	search.CharLimit = 256

	grid := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1F2937")).
		Background(accent).
		Bold(false)
	grid.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		state:       stateFilePicker,
		filepicker:  fp,
		initialFile: path,
		session:     session.New(cfg.RowLimit, cfg.ChartTopN),
		opts:        cfg.LoaderOptions(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		search:      search,
		grid:        grid,
		spinner:     sp,
		bar:         progress.New(progress.WithGradient("#FF8C42", "#FF9F5A"), progress.WithoutPercentage()),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.filepicker.Init()}
	if m.initialFile != "" {
		path := m.initialFile
		cmds = append(cmds, func() tea.Msg { return openFileMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		m.filepicker.SetHeight(max(msg.Height-14, 5))
		m.help.Width = msg.Width
		m.refreshGrid()
		return m, nil

	case openFileMsg:
		return m.startLoad(msg.path)

	case fileLoadedMsg:
		return m.finishLoad(msg), nil

	case rowCopiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "row copied to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case stateFilePicker:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Back) && m.session.State() == session.StateLoaded:
				m.state = stateGrid
				return m, nil
			}

		case stateLoading:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil

		case stateGrid:
			return m.updateGrid(msg)

		case stateChart:
			return m.updateChart(msg)

		case stateColumns:
			return m.updateColumns(msg)
		}
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.startLoad(path)
		}
		if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
			return m.startLoad(path)
		}

		return m, cmd
	}

	return m, nil
}

// startLoad registers the load with the session and cancels any load
// still running, whose result the session would drop anyway.
func (m Model) startLoad(path string) (Model, tea.Cmd) {
	s, id, err := m.session.BeginLoad(path)
	m.session = s
	if err != nil {
		return m, nil
	}

	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.selectedFile = path
	m.status = ""
	m.state = stateLoading

	return m, tea.Batch(m.spinner.Tick, loadFile(ctx, id, path, m.opts))
}

func loadFile(ctx context.Context, id, path string, opts loader.Options) tea.Cmd {
	return func() tea.Msg {
		data, err := loader.LoadFile(ctx, path, opts)
		return fileLoadedMsg{id: id, data: data, err: err}
	}
}

func (m Model) finishLoad(msg fileLoadedMsg) Model {
	s, applied := m.session.CompleteLoad(msg.id, msg.data, msg.err)
	if !applied {
		return m
	}
	m.session = s
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	switch {
	case msg.err == nil:
		m.state = stateGrid
		m.resetSheetCursor()
	case s.State() == session.StateLoaded:
		m.state = stateGrid
	default:
		m.state = stateFilePicker
	}
	m.refreshGrid()
	return m
}

func (m *Model) resetSheetCursor() {
	m.colCursor = 0
	m.panelCursor = 0
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.grid.SetCursor(0)
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refreshGrid()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Back):
		m.session = m.session.SetSearch("").ClearError()
		m.search.SetValue("")
		m.refreshGrid()
	case key.Matches(msg, m.keys.Left):
		if m.colCursor > 0 {
			m.colCursor--
		}
		m.refreshGrid()
	case key.Matches(msg, m.keys.Right):
		if m.colCursor < len(m.session.Derive().Visible)-1 {
			m.colCursor++
		}
		m.refreshGrid()
	case key.Matches(msg, m.keys.Sort):
		if col, ok := m.currentColumn(); ok {
			m.session = m.session.ToggleSort(col)
			m.refreshGrid()
		}
	case key.Matches(msg, m.keys.NextSheet):
		m.session = m.session.NextSheet()
		m.resetSheetCursor()
		m.refreshGrid()
	case key.Matches(msg, m.keys.PrevSheet):
		m.session = m.session.PrevSheet()
		m.resetSheetCursor()
		m.refreshGrid()
	case key.Matches(msg, m.keys.Columns):
		m.state = stateColumns
	case key.Matches(msg, m.keys.Chart):
		m.state = stateChart
	case key.Matches(msg, m.keys.Open):
		m.state = stateFilePicker
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelectedRow()
	default:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateSearch feeds keystrokes to the search box and re-filters on every
// change. Enter keeps the query, esc clears it.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.session = m.session.SetSearch("")
		m.refreshGrid()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.session.View().Search {
		m.session = m.session.SetSearch(m.search.Value())
		m.grid.SetCursor(0)
		m.refreshGrid()
	}
	return m, cmd
}

func (m Model) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Chart), key.Matches(msg, m.keys.Back):
		m.state = stateGrid
	case key.Matches(msg, m.keys.Category):
		m.session = m.session.CycleCategoryAxis()
	case key.Matches(msg, m.keys.Value):
		m.session = m.session.CycleValueAxis()
	case key.Matches(msg, m.keys.NextSheet):
		m.session = m.session.NextSheet()
		m.resetSheetCursor()
		m.refreshGrid()
	case key.Matches(msg, m.keys.PrevSheet):
		m.session = m.session.PrevSheet()
		m.resetSheetCursor()
		m.refreshGrid()
	}
	return m, nil
}

func (m Model) updateColumns(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sheet, _ := m.session.ActiveSheet()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Columns), msg.Type == tea.KeyEnter:
		m.state = stateGrid
	case key.Matches(msg, m.keys.NavigateUp):
		if m.panelCursor > 0 {
			m.panelCursor--
		}
	case key.Matches(msg, m.keys.NavigateDn):
		if m.panelCursor < len(sheet.Headers)-1 {
			m.panelCursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.session = m.session.ToggleColumn(m.panelCursor)
	case key.Matches(msg, m.keys.ShowAll):
		m.session = m.session.ShowAllColumns()
	}

	if visible := len(m.session.Derive().Visible); m.colCursor >= visible {
		m.colCursor = max(visible-1, 0)
	}
	m.refreshGrid()
	return m, nil
}

// currentColumn maps the column cursor to a sheet column index.
func (m Model) currentColumn() (int, bool) {
	visible := m.session.Derive().Visible
	if m.colCursor < 0 || m.colCursor >= len(visible) {
		return 0, false
	}
	return visible[m.colCursor], true
}
