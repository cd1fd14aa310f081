// Package runs provides the recorded runs view for the TUI.
package runs

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
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

// View lists recorded runs, newest first. Enter shows the run.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.WorkspaceService
	list      *list.List

	runs    []domain.Run
	loading bool
	err     error
}

// NewView creates a new runs view.
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

// Init loads the runs.
func (v *View) Init() tea.Cmd {
	v.loading = true
	ctx, workspace := v.ctx, v.workspace
	return func() tea.Msg {
		runs, err := workspace.Runs(ctx)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

// Update handles messages for the runs view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RunsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.runs = msg.Runs
			v.list.SetItems(v.items())
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case key.Matches(msg, v.keymap.Refresh):
			return v, v.Init()
		case key.Matches(msg, v.keymap.Select):
			run := v.SelectedRun()
			if run == nil {
				return v, nil
			}
			return v, show(run)
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) items() []list.Item {
	items := make([]list.Item, len(v.runs))
	for i := range v.runs {
		run := &v.runs[i]
		target := run.Target
		if target == "" {
			target = "(all)"
		}
		items[i] = list.Item{
			Label:  fmt.Sprintf("%s  %s", shortID(run.ID), target),
			Detail: v.styles.RunStatus(run.Status) + "  " + run.StartedAt.Local().Format(timeLayout),
		}
	}
	return items
}

func show(run *domain.Run) tea.Cmd {
	return func() tea.Msg {
		text, err := Describe(run)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.ContentRequested{
			Title:   "Run " + run.ID,
			Content: text,
			Back:    messages.ViewRuns,
		}
	}
}

// Describe renders a run summary followed by its resolved models or error.
func Describe(run *domain.Run) (string, error) {
	var b strings.Builder

	target := run.Target
	if target == "" {
		target = "(all)"
	}
	fmt.Fprintf(&b, "Status:     %s\n", run.Status)
	fmt.Fprintf(&b, "Target:     %s\n", target)
	fmt.Fprintf(&b, "Started:    %s\n", run.StartedAt.Local().Format(timeLayout))
	fmt.Fprintf(&b, "Duration:   %s\n", run.Duration())
	fmt.Fprintf(&b, "Namespaces: %s\n", strings.Join(run.Namespaces, ", "))

	if run.Error != "" {
		fmt.Fprintf(&b, "Error:      %s\n", run.Error)
	}
	if run.Resolved != nil {
		text, err := content.FormatJSON(run.Resolved)
		if err != nil {
			return "", fmt.Errorf("encoding run %s: %w", run.ID, err)
		}
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// View renders the runs list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Runs"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.list.Len() == 0:
		b.WriteString(v.styles.Muted.Render("No runs recorded."))
	default:
		b.WriteString(v.list.View())
	}
	return b.String()
}

// SetDimensions sizes the list to the space below the title.
func (v *View) SetDimensions(width, height int) {
	v.list.SetDimensions(width, height-4)
}

// SelectedRun returns the selected run, or nil when none.
func (v *View) SelectedRun() *domain.Run {
	i := v.list.Selected()
	if i < 0 || i >= len(v.runs) {
		return nil
	}
	return &v.runs[i]
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.Run {
	return v.runs
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
