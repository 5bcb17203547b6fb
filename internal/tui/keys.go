package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open     key.Binding
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Restore  key.Binding
	Cycle    key.Binding
	CloseAll key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new window"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "maximize"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle"),
		),
		CloseAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "close all"),
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

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Minimize, k.Maximize, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.CloseAll},
		{k.Minimize, k.Maximize, k.Restore},
		{k.Cycle, k.Help, k.Quit},
	}
}
