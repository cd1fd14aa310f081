// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Resolve    key.Binding
	ResolveAll key.Binding
	Refresh    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Resolve: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resolve"),
		),
		ResolveAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "resolve all"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}

// NamespacesHelp returns the bindings shown under the namespaces list.
func (k *KeyMap) NamespacesHelp() []key.Binding {
	return []key.Binding{k.Select, k.Resolve, k.ResolveAll, k.Refresh, k.Back}
}

// RunsHelp returns the bindings shown under the runs list.
func (k *KeyMap) RunsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Refresh, k.Back}
}

// FullHelp returns every binding grouped for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Resolve, k.ResolveAll, k.Refresh},
		{k.Back, k.Help, k.Quit},
	}
}
