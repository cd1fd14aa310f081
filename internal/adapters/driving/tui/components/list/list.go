// Package list provides a navigable list component for the TUI.
package list

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
)

// Item is one row of the list. Detail is rendered muted after Label and
// is expected to be pre-styled when it carries colour.
type Item struct {
	Label  string
	Detail string
}

// List displays items and tracks the selection.
type List struct {
	items    []Item
	selected int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// New creates an empty list.
func New(s *styles.Styles, km *keymap.KeyMap) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &List{styles: s, keymap: km, width: 80, height: 10}
}

// Update moves the selection on up and down keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, l.keymap.Up):
			l.MoveUp()
		case key.Matches(msg, l.keymap.Down):
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of items.
func (l *List) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("(empty)")
	}

	visible := l.height
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderItem(i int) string {
	item := l.items[i]
	label := item.Label
	maxLabel := l.width - 4
	if maxLabel < 10 {
		maxLabel = 10
	}
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}

	line := "  " + l.styles.Normal.Render(label)
	if i == l.selected {
		line = l.styles.Selected.Render("> " + label)
	}
	if item.Detail != "" {
		line += "  " + l.styles.Muted.Render(item.Detail)
	}
	return line
}

// SetItems replaces the items and keeps the selection in range.
func (l *List) SetItems(items []Item) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the selected index, or -1 when the list is empty.
func (l *List) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

// MoveUp moves the selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the width and the number of visible rows.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}
