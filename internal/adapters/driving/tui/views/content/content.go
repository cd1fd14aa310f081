// Package content provides the scrollable text view for the TUI.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
)

// reservedLines is the space taken by the title, separator and footer.
const reservedLines = 5

// View shows a titled block of text in a viewport.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	title    string
	content  string
	back     messages.ViewType
	width    int
}

// NewView creates a new content view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 24-reservedLines),
		back:     messages.ViewMenu,
		width:    80,
	}
}

// SetContent replaces the text and scrolls to the top. Esc returns to back.
func (v *View) SetContent(title, content string, back messages.ViewType) {
	v.title = title
	v.content = content
	v.back = back
	v.viewport.SetContent(content)
	v.viewport.GotoTop()
}

// Update handles scrolling and esc.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, v.keymap.Back) {
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the title, the visible text and the scroll position.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n")

	if v.content == "" {
		b.WriteString(v.styles.Muted.Render("(No content)"))
	} else {
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		fmt.Sprintf("[%3.f%%] [↑/↓/PgUp/PgDn] scroll  [esc] back", v.viewport.ScrollPercent()*100)))
	return b.String()
}

// SetDimensions resizes the viewport.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 1)
}

// Title returns the current title.
func (v *View) Title() string {
	return v.title
}

// Content returns the current text.
func (v *View) Content() string {
	return v.content
}

// Back returns the view esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}

// FormatJSON renders a document or model set as indented JSON.
func FormatJSON(m json.Marshaler) (string, error) {
	raw, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
