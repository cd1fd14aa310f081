package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   RunStatus
		expected bool
	}{
		{"succeeded is valid", RunSucceeded, true},
		{"failed is valid", RunFailed, true},
		{"empty is invalid", RunStatus(""), false},
		{"unknown is invalid", RunStatus("running"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestRun_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	run := Run{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}

	assert.Equal(t, 1500*time.Millisecond, run.Duration())
}

func TestModelChangeType_String(t *testing.T) {
	assert.Equal(t, "updated", ModelChangeUpdated.String())
	assert.Equal(t, "deleted", ModelChangeDeleted.String())
	assert.Equal(t, "unknown", ModelChangeType(42).String())
}
