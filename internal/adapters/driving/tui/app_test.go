package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaresolve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/services"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	workspace := services.NewWorkspaceService(
		services.NewResolverService(services.WithWorkers(1)),
		memory.NewModelStore(),
		memory.NewRunStore(),
		nil,
		nil,
	)
	decl := domain.NewObject()
	decl.Set(domain.ClassKey, "concerto.metamodel@1.0.0.ConceptDeclaration")
	decl.Set("name", "Vehicle")
	require.NoError(t, workspace.Add(context.Background(), domain.NewDocument("org.vehicle", nil, decl)))

	app, err := NewApp(&Ports{Workspace: workspace})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// send feeds msg to the app and then every message its commands produce,
// one level deep.
func send(app *App, msg tea.Msg) tea.Msg {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return nil
	}
	next := cmd()
	if next != nil {
		app.Update(next)
	}
	return next
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp_MissingWorkspace(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingWorkspaceService)
	assert.Nil(t, app)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingWorkspaceService)
}

func TestApp_StartsAtMenu(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.NotNil(t, app.Init())
	assert.Contains(t, app.View(), "Namespaces")
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{Workspace: newTestApp(t).ports.Workspace})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_NamespacesFlow(t *testing.T) {
	app := newTestApp(t)

	// Menu -> namespaces
	msg := send(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, messages.ViewChanged{View: messages.ViewNamespaces}, msg)
	send(app, msg)
	assert.Equal(t, messages.ViewNamespaces, app.CurrentView())
	assert.Contains(t, app.View(), "org.vehicle")

	// Open the stored model
	msg = send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, messages.ContentRequested{}, msg)
	assert.Equal(t, messages.ViewContent, app.CurrentView())
	assert.Contains(t, app.View(), `"namespace": "org.vehicle"`)

	// Back to the list
	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewNamespaces, app.CurrentView())
}

func TestApp_ResolveFromNamespaces(t *testing.T) {
	app := newTestApp(t)
	send(app, messages.ViewChanged{View: messages.ViewNamespaces})

	msg := send(app, keyRune('r'))

	completed, ok := msg.(messages.RunCompleted)
	require.True(t, ok)
	require.NotNil(t, completed.Run)
	assert.Equal(t, "org.vehicle", completed.Run.Target)
	assert.Contains(t, app.StatusMessage(), "Resolved org.vehicle")

	send(app, keyRune('a'))
	assert.Contains(t, app.StatusMessage(), "Resolved all namespaces")
}

func TestApp_RunsFlow(t *testing.T) {
	app := newTestApp(t)
	send(app, messages.ViewChanged{View: messages.ViewNamespaces})
	send(app, keyRune('a'))

	send(app, messages.ViewChanged{View: messages.ViewRuns})
	assert.Equal(t, messages.ViewRuns, app.CurrentView())
	assert.Contains(t, app.View(), "(all)")

	msg := send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, messages.ContentRequested{}, msg)
	assert.Contains(t, app.View(), "Status:     succeeded")

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewRuns, app.CurrentView())

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_RunCompleted(t *testing.T) {
	tests := []struct {
		name string
		msg  messages.RunCompleted
		want string
	}{
		{
			name: "failed run",
			msg: messages.RunCompleted{Run: &domain.Run{
				ID: "r1", Target: "org.car", Status: domain.RunFailed, Error: "Name Vehicle not found",
			}},
			want: "resolving org.car: Name Vehicle not found",
		},
		{
			name: "no run recorded",
			msg:  messages.RunCompleted{Err: errors.New("namespace missing")},
			want: "namespace missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			app.Update(tt.msg)

			assert.Equal(t, tt.want, app.StatusMessage())
		})
	}
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)
	err := errors.New("store closed")

	app.Update(messages.ErrorOccurred{Err: err})

	assert.Equal(t, err, app.Err())
	assert.Equal(t, "store closed", app.StatusMessage())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)

	send(app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "resolve all")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "namespaces", messages.ViewNamespaces.String())
	assert.Equal(t, "unknown", messages.ViewType(99).String())
}
