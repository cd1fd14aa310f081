package domain

import "time"

// RunStatus is the outcome of a resolution run.
type RunStatus string

// Run statuses.
const (
	// RunSucceeded means every requested document resolved.
	RunSucceeded RunStatus = "succeeded"

	// RunFailed means resolution stopped at the first error.
	RunFailed RunStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunSucceeded, RunFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// Run records one resolution of stored models.
type Run struct {
	// ID is the unique run identifier.
	ID string

	// Target is the namespace resolved on its own, or "" for a resolve-all run.
	Target string

	// Namespaces lists the namespaces that took part, in order.
	Namespaces []string

	// Status is the outcome.
	Status RunStatus

	// Error is the failure message when Status is RunFailed.
	Error string

	// Resolved holds the resolved documents when Status is RunSucceeded.
	Resolved *Models

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ModelChangeType identifies what happened to a model file.
type ModelChangeType int

// Model change types.
const (
	// ModelChangeUpdated means a model file was created or written.
	ModelChangeUpdated ModelChangeType = iota

	// ModelChangeDeleted means a model file was removed or renamed away.
	ModelChangeDeleted
)

// String returns the string representation.
func (t ModelChangeType) String() string {
	switch t {
	case ModelChangeUpdated:
		return "updated"
	case ModelChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ModelChange describes a change to a watched model file.
type ModelChange struct {
	Type ModelChangeType
	Path string
}
