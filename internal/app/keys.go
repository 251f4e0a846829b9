package app

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Erase     key.Binding
	Verify    key.Binding
	Refresh   key.Binding
	Port      key.Binding
	Board     key.Binding
	NextBoard key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeys() KeyMap {
	return KeyMap{
		Erase: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "erase"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh ports"),
		),
		Port: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "port"),
		),
		Board: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "board"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next board"),
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

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Erase, k.Verify, k.Port, k.Board, k.Refresh, k.Help, k.Quit}
}

// FullHelp lists every binding for the help overlay.
func (k KeyMap) FullHelp() []key.Binding {
	return []key.Binding{k.Erase, k.Verify, k.Port, k.Board, k.NextBoard, k.Refresh, k.Help, k.Quit}
}
