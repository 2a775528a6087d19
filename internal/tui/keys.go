package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Section key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Prev    key.Binding
	Next    key.Binding
	Save    key.Binding
	Export  key.Binding
	Backup  key.Binding
	Reset   key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Section: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev choice")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next choice")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Backup:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "backup now")),
		Reset:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Toggle, k.Next, k.Save, k.Export, k.Backup, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Section},
		{k.Edit, k.Toggle, k.Prev, k.Next},
		{k.Save, k.Export, k.Backup, k.Reset, k.Quit},
	}
}
