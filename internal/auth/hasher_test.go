package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialHasher(t *testing.T) {
	hasher := NewCredentialHasher(4)

	hash, err := hasher.HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.True(t, hasher.VerifyPassword("Sup3r$ecret", hash))
	assert.False(t, hasher.VerifyPassword("wrong-password", hash))
	assert.False(t, hasher.VerifyPassword("", hash))
}

func TestNewCredentialHasher_InvalidCost(t *testing.T) {
	hasher := NewCredentialHasher(99)

	hash, err := hasher.HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	assert.True(t, hasher.VerifyPassword("Sup3r$ecret", hash))
}
