package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginValidate(t *testing.T) {
	svc := NewAuthService(newTestDB(t), "test-secret")

	token, err := svc.Register("admin", "parol123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = svc.Register("admin", "boshqa")
	assert.Error(t, err)

	token, err = svc.Login("admin", "parol123")
	require.NoError(t, err)

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	_, err = svc.Login("admin", "notogri")
	assert.Error(t, err)
	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
