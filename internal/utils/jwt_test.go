package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken(testSecret, 42, "CUSTOMER", 60)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)
	require.NotEmpty(t, access.TokenID)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), access.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, access.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "CUSTOMER", claims.Role)
	assert.Equal(t, access.TokenID, claims.TokenID)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	access, err := NewAccessToken(testSecret, 1, "CUSTOMER", 60)
	require.NoError(t, err)

	_, err = ParseAccessToken("a-different-secret", access.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	access, err := NewAccessToken(testSecret, 1, "CUSTOMER", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, access.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	_, err := ParseAccessToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		access, err := NewAccessToken(testSecret, 7, "ADMIN", 60)
		require.NoError(t, err)
		assert.False(t, seen[access.TokenID], "duplicate jti %s", access.TokenID)
		seen[access.TokenID] = true
	}
}
