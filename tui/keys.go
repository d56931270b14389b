package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle        key.Binding
	ToggleAll     key.Binding
	Purge         key.Binding
	Rescan        key.Binding
	Sort          key.Binding
	ToggleConfirm key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "select"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Purge: key.NewBinding(
			key.WithKeys("D", "enter"),
			key.WithHelp("D/enter", "purge selected"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ToggleConfirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle confirm"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ToggleAll, k.Purge, k.Sort, k.Rescan, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ToggleAll, k.Purge},
		{k.Sort, k.ToggleConfirm, k.Rescan, k.Help, k.Quit},
	}
}
