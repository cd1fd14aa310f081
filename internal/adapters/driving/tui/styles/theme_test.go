package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

func TestNewStyles_DefaultTheme(t *testing.T) {
	s := NewStyles(nil)

	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_RunStatus(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.RunStatus(domain.RunSucceeded), "succeeded")
	assert.Contains(t, s.RunStatus(domain.RunFailed), "failed")
}
