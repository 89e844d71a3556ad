package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	clear     key.Binding
	buildInfo key.Binding
	esc       key.Binding
	quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.clear, k.buildInfo, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.esc}}
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear finished")),
	buildInfo: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "version")),
	esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
