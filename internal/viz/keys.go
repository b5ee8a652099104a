package viz

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tick      key.Binding
	Autoplay  key.Binding
	Slower    key.Binding
	Faster    key.Binding
	NextPanel key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Edit      key.Binding
	Done      key.Binding
	Cancel    key.Binding
	Reset     key.Binding
	Snapshot  key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tick: key.NewBinding(
			key.WithKeys("t", "n"),
			key.WithHelp("t", "tick"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "autoplay"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "interval up"),
		),
		Faster: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "interval down"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "row down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "field left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "field right"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit field"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "save png"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tick, k.Autoplay, k.Slower, k.Faster, k.Edit, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tick, k.Autoplay, k.Slower, k.Faster, k.Reset},
		{k.NextPanel, k.Up, k.Down, k.Left, k.Right},
		{k.Edit, k.Cancel, k.Snapshot, k.Theme},
		{k.Help, k.Quit},
	}
}
