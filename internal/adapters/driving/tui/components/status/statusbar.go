// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
)

// Level selects how the status message is rendered.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Bar shows a status message on the left and keybinding hints on the right.
type Bar struct {
	styles  *styles.Styles
	level   Level
	message string
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{styles: s, width: 80}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	if b.message == "" {
		return b.styles.Muted.Render("Ready")
	}
	switch b.level {
	case LevelSuccess:
		return b.styles.Success.Render(b.message)
	case LevelError:
		return b.styles.Error.Render("Error: " + b.message)
	default:
		return b.styles.Normal.Render(b.message)
	}
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// Set sets the message and its level.
func (b *Bar) Set(level Level, message string) {
	b.level = level
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// Level returns the current level.
func (b *Bar) Level() Level {
	return b.level
}

// SetHints sets the keybindings shown on the right.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear resets the message.
func (b *Bar) Clear() {
	b.level = LevelInfo
	b.message = ""
}
