package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue("user_1")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "user_1", claims.Subject)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", -time.Minute)

	token, err := m.Issue("user_1")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenManager("secret-a", time.Hour).Issue("user_1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)
}
