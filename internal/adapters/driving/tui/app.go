package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/views/content"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/views/namespaces"
	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui/views/runs"
	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// App is the workspace browser following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	namespacesView *namespaces.View
	runsView       *runs.View
	contentView    *content.View
	statusBar      *status.Bar

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s, km),
		namespacesView: namespaces.NewView(s, km, ports.Workspace),
		runsView:       runs.NewView(s, km, ports.Workspace),
		contentView:    content.NewView(s, km),
		statusBar:      status.NewBar(s),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for workspace calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.namespacesView.SetContext(ctx)
	a.runsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("metaresolve")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.NamespacesLoaded:
		a.namespacesView, cmd = a.namespacesView.Update(msg)
		return a, cmd

	case messages.RunsLoaded:
		a.runsView, cmd = a.runsView.Update(msg)
		return a, cmd

	case messages.ContentRequested:
		a.contentView.SetContent(msg.Title, msg.Content, msg.Back)
		a.currentView = messages.ViewContent
		a.statusBar.SetHints(nil)
		return a, nil

	case messages.RunCompleted:
		a.reportRun(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.Set(status.LevelError, msg.Err.Error())
		return a, nil
	}

	if a.currentView == messages.ViewContent {
		a.contentView, cmd = a.contentView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewNamespaces:
		a.namespacesView, cmd = a.namespacesView.Update(msg)
	case messages.ViewRuns:
		a.runsView, cmd = a.runsView.Update(msg)
	case messages.ViewContent:
		a.contentView, cmd = a.contentView.Update(msg)
	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.statusBar.Clear()

	switch view {
	case messages.ViewNamespaces:
		a.statusBar.SetHints(a.keymap.NamespacesHelp())
		return a.namespacesView.Init()
	case messages.ViewRuns:
		a.statusBar.SetHints(a.keymap.RunsHelp())
		return a.runsView.Init()
	case messages.ViewMenu, messages.ViewContent, messages.ViewHelp:
		a.statusBar.SetHints(nil)
	}
	return nil
}

func (a *App) reportRun(msg messages.RunCompleted) {
	if msg.Run == nil {
		a.err = msg.Err
		if msg.Err != nil {
			a.statusBar.Set(status.LevelError, msg.Err.Error())
		}
		return
	}

	target := msg.Run.Target
	if target == "" {
		target = "all namespaces"
	}
	if msg.Run.Status == domain.RunSucceeded {
		a.statusBar.Set(status.LevelSuccess, fmt.Sprintf("Resolved %s (run %s)", target, msg.Run.ID))
		return
	}
	a.statusBar.Set(status.LevelError, fmt.Sprintf("resolving %s: %s", target, msg.Run.Error))
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewNamespaces:
		return a.withStatus(a.namespacesView.View())
	case messages.ViewRuns:
		return a.withStatus(a.runsView.View())
	case messages.ViewContent:
		return a.contentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) withStatus(body string) string {
	return body + "\n\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// StatusMessage returns the status bar message.
func (a *App) StatusMessage() string {
	return a.statusBar.Message()
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.namespacesView.SetDimensions(width, height-2)
	a.runsView.SetDimensions(width, height-2)
	a.contentView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
