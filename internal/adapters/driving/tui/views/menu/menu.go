// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
)

// Item is a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool
}

// View is the main menu.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
}

// NewView creates a new menu view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items: []Item{
			{Label: "Namespaces", View: messages.ViewNamespaces},
			{Label: "Runs", View: messages.ViewRuns},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
	}
}

// Update handles key presses.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(keyMsg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(keyMsg, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case key.Matches(keyMsg, v.keymap.Select):
		item := v.items[v.selected]
		if item.Quit {
			return v, tea.Quit
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: item.View}
		}
	case key.Matches(keyMsg, v.keymap.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("metaresolve"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Model workspace"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Subtitle.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}
