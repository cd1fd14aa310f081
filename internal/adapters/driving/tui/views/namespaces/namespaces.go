// Package namespaces provides the stored namespaces view for the TUI.
package namespaces

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/views/content"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
)

// View lists stored namespaces. Enter opens the stored model, r resolves
// the selected namespace and a resolves the whole workspace.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.WorkspaceService
	list      *list.List

	namespaces []string
	loading    bool
	err        error
}

// NewView creates a new namespaces view.
func NewView(s *styles.Styles, km *keymap.KeyMap, workspace driving.WorkspaceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		workspace: workspace,
		list:      list.New(s, km),
	}
}

// SetContext sets the context used for workspace calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the namespaces.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx, workspace := v.ctx, v.workspace
	return func() tea.Msg {
		namespaces, err := workspace.Namespaces(ctx)
		return messages.NamespacesLoaded{Namespaces: namespaces, Err: err}
	}
}

// Update handles messages for the namespaces view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.NamespacesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.namespaces = msg.Namespaces
			items := make([]list.Item, len(msg.Namespaces))
			for i, ns := range msg.Namespaces {
				items[i] = list.Item{Label: ns}
			}
			v.list.SetItems(items)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Init()
	case key.Matches(msg, v.keymap.ResolveAll):
		return v, v.resolveAll()
	case key.Matches(msg, v.keymap.Select):
		if ns := v.SelectedNamespace(); ns != "" {
			return v, v.open(ns)
		}
		return v, nil
	case key.Matches(msg, v.keymap.Resolve):
		if ns := v.SelectedNamespace(); ns != "" {
			return v, v.resolve(ns)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) open(namespace string) tea.Cmd {
	ctx, workspace := v.ctx, v.workspace
	return func() tea.Msg {
		doc, err := workspace.Get(ctx, namespace)
		if err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("namespace %s: %w", namespace, err)}
		}
		text, err := content.FormatJSON(doc)
		if err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("encoding %s: %w", namespace, err)}
		}
		return messages.ContentRequested{Title: namespace, Content: text, Back: messages.ViewNamespaces}
	}
}

func (v *View) resolve(namespace string) tea.Cmd {
	ctx, workspace := v.ctx, v.workspace
	return func() tea.Msg {
		run, err := workspace.Resolve(ctx, namespace)
		return messages.RunCompleted{Run: run, Err: err}
	}
}

func (v *View) resolveAll() tea.Cmd {
	ctx, workspace := v.ctx, v.workspace
	return func() tea.Msg {
		run, err := workspace.ResolveAll(ctx)
		return messages.RunCompleted{Run: run, Err: err}
	}
}

// View renders the namespaces list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Namespaces"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading namespaces..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.list.Len() == 0:
		b.WriteString(v.styles.Muted.Render("No models stored. Run 'metaresolve resolve --store <path>' first."))
	default:
		b.WriteString(v.list.View())
	}
	return b.String()
}

// SetDimensions sizes the list to the space below the title.
func (v *View) SetDimensions(width, height int) {
	v.list.SetDimensions(width, height-4)
}

// SelectedNamespace returns the selected namespace, or "" when none.
func (v *View) SelectedNamespace() string {
	i := v.list.Selected()
	if i < 0 || i >= len(v.namespaces) {
		return ""
	}
	return v.namespaces[i]
}

// Namespaces returns the loaded namespaces.
func (v *View) Namespaces() []string {
	return v.namespaces
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
