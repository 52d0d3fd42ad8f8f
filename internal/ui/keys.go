package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	NextSheet  key.Binding
	PrevSheet  key.Binding
	Search     key.Binding
	Sort       key.Binding
	Columns    key.Binding
	Chart      key.Binding
	Category   key.Binding
	Value      key.Binding
	Toggle     key.Binding
	ShowAll    key.Binding
	Open       key.Binding
	Copy       key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
	NavigateUp key.Binding
	NavigateDn key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		NextSheet: key.NewBinding(
			key.WithKeys("tab", "]"),
			key.WithHelp("tab", "next sheet"),
		),
		PrevSheet: key.NewBinding(
			key.WithKeys("shift+tab", "["),
			key.WithHelp("shift+tab", "prev sheet"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Columns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "columns"),
		),
		Chart: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "chart"),
		),
		Category: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "category axis"),
		),
		Value: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "value axis"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "show all"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NavigateUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		NavigateDn: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// gridHelp implements help.KeyMap for the grid screen.
type gridHelp struct{ k keyMap }

func (h gridHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Search, h.k.Sort, h.k.NextSheet, h.k.Chart, h.k.Help, h.k.Quit}
}

func (h gridHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.NavigateUp, h.k.NavigateDn, h.k.Left, h.k.Right},
		{h.k.Search, h.k.Sort, h.k.Columns, h.k.Copy},
		{h.k.NextSheet, h.k.PrevSheet, h.k.Chart, h.k.Open},
		{h.k.Back, h.k.Help, h.k.Quit},
	}
}

type chartHelp struct{ k keyMap }

func (h chartHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Category, h.k.Value, h.k.NextSheet, h.k.Chart, h.k.Quit}
}

func (h chartHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type columnsHelp struct{ k keyMap }

func (h columnsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.NavigateUp, h.k.NavigateDn, h.k.Toggle, h.k.ShowAll, h.k.Back}
}

func (h columnsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
