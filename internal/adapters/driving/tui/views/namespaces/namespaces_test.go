package namespaces

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
	"github.com/custodia-labs/metaresolve/internal/core/ports/driving"
	"github.com/custodia-labs/metaresolve/internal/core/services"
)

func newWorkspace(t *testing.T, namespaces ...string) driving.WorkspaceService {
	t.Helper()
	w := services.NewWorkspaceService(
		services.NewResolverService(services.WithWorkers(1)),
		memory.NewModelStore(),
		memory.NewRunStore(),
		nil,
		nil,
	)
	for _, ns := range namespaces {
		require.NoError(t, w.Add(context.Background(), domain.NewDocument(ns, nil)))
	}
	return w
}

func loaded(t *testing.T, v *View) *View {
	t.Helper()
	msg := v.Init()()
	v, _ = v.Update(msg)
	return v
}

func TestView_Load(t *testing.T) {
	v := NewView(nil, nil, newWorkspace(t, "org.truck", "org.car"))
	v.SetDimensions(80, 20)

	v = loaded(t, v)

	require.NoError(t, v.Err())
	assert.Equal(t, []string{"org.car", "org.truck"}, v.Namespaces())
	assert.Equal(t, "org.car", v.SelectedNamespace())
	assert.Contains(t, v.View(), "org.truck")
}

func TestView_LoadStates(t *testing.T) {
	v := NewView(nil, nil, newWorkspace(t))

	v.Init()
	assert.Contains(t, v.View(), "Loading namespaces...")

	v.Update(messages.NamespacesLoaded{})
	assert.Contains(t, v.View(), "No models stored")
	assert.Empty(t, v.SelectedNamespace())

	v.Update(messages.NamespacesLoaded{Err: errors.New("database is locked")})
	assert.Contains(t, v.View(), "Error: database is locked")
}

func TestView_Keys(t *testing.T) {
	v := loaded(t, NewView(nil, nil, newWorkspace(t, "org.car", "org.truck")))

	t.Run("down then open", func(t *testing.T) {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, "org.truck", v.SelectedNamespace())

		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		msg, ok := cmd().(messages.ContentRequested)
		require.True(t, ok)
		assert.Equal(t, "org.truck", msg.Title)
		assert.Equal(t, messages.ViewNamespaces, msg.Back)
		assert.Contains(t, msg.Content, `"namespace": "org.truck"`)
	})

	t.Run("resolve selected", func(t *testing.T) {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		require.NotNil(t, cmd)
		msg, ok := cmd().(messages.RunCompleted)
		require.True(t, ok)
		require.NoError(t, msg.Err)
		assert.Equal(t, "org.truck", msg.Run.Target)
		assert.Equal(t, domain.RunSucceeded, msg.Run.Status)
	})

	t.Run("resolve all", func(t *testing.T) {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
		require.NotNil(t, cmd)
		msg, ok := cmd().(messages.RunCompleted)
		require.True(t, ok)
		assert.Empty(t, msg.Run.Target)
		assert.Equal(t, []string{"org.car", "org.truck"}, msg.Run.Namespaces)
	})

	t.Run("refresh", func(t *testing.T) {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		require.NotNil(t, cmd)
		assert.IsType(t, messages.NamespacesLoaded{}, cmd())
	})

	t.Run("back", func(t *testing.T) {
		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
	})
}

func TestView_OpenMissingNamespace(t *testing.T) {
	v := NewView(nil, nil, newWorkspace(t))
	v.Update(messages.NamespacesLoaded{Namespaces: []string{"org.gone"}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, domain.ErrNotFound)
}

func TestView_EmptyIgnoresSelect(t *testing.T) {
	v := NewView(nil, nil, newWorkspace(t))
	v.Update(messages.NamespacesLoaded{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, cmd)
}
