package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/metaresolve/internal/adapters/driving/tui"
)

func TestBrowseCmd_Errors(t *testing.T) {
	defer func() { current = nil }()

	t.Run("not configured", func(t *testing.T) {
		current = nil

		_, _, err := execute(t, "browse")

		assert.EqualError(t, err, "services not configured")
	})

	t.Run("missing workspace", func(t *testing.T) {
		current = &Services{}

		_, _, err := execute(t, "browse")

		assert.ErrorIs(t, err, tui.ErrMissingWorkspaceService)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		setupTestServices(t)

		_, _, err := execute(t, "browse", "models/")

		assert.Error(t, err)
	})
}
