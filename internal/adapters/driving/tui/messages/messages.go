// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewNamespaces lists stored namespaces.
	ViewNamespaces
	// ViewRuns lists recorded resolution runs.
	ViewRuns
	// ViewContent shows a model or a run result.
	ViewContent
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewNamespaces:
		return "namespaces"
	case ViewRuns:
		return "runs"
	case ViewContent:
		return "content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// NamespacesLoaded carries the stored namespaces.
type NamespacesLoaded struct {
	Namespaces []string
	Err        error
}

// RunsLoaded carries the recorded runs, newest first.
type RunsLoaded struct {
	Runs []domain.Run
	Err  error
}

// RunCompleted signals a resolution started from the TUI finished.
// Run is set even when resolution failed; Err is set when no run was
// recorded at all.
type RunCompleted struct {
	Run *domain.Run
	Err error
}

// ContentRequested asks the app to show text in the content view.
// Back is the view esc returns to.
type ContentRequested struct {
	Title   string
	Content string
	Back    ViewType
}
