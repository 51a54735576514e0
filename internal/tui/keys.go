package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the monitor.
type KeyMap struct {
	NextChannel key.Binding
	PrevChannel key.Binding
	Pause       key.Binding
	Refresh     key.Binding
	Quit        key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextChannel: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next channel"),
		),
		PrevChannel: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev channel"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to show in the help view (horizontal).
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevChannel, k.NextChannel, k.Pause, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevChannel, k.NextChannel, k.Pause, k.Refresh, k.Quit, k.Help},
	}
}
