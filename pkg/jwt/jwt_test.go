package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.GenerateAccessToken("user-1", "agent@example.com", "agent")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewManager("secret-a").GenerateAccessToken("user-1", "a@b.c", "agent")
	require.NoError(t, err)

	_, err = NewManager("secret-b").ValidateAccessToken(token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := NewManager("secret").ValidateToken("not.a.token")
	require.Error(t, err)
}
