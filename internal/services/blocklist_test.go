package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockUnblock(t *testing.T) {
	svc := NewBlocklistService(newTestDB(t))

	assert.False(t, svc.IsBlocked(42))
	require.NoError(t, svc.Block(42, "aziz", "Aziz", 999, "spam"))
	assert.True(t, svc.IsBlocked(42))

	// idempotent
	require.NoError(t, svc.Block(42, "aziz", "Aziz", 999, "spam again"))

	require.NoError(t, svc.Unblock(42))
	assert.False(t, svc.IsBlocked(42))
}
