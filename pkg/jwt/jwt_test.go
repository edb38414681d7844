package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, "webhooks-api", 1)

	token, err := tm.GenerateToken("ci-bot", RoleAdmin)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "webhooks-api", claims.Issuer)
}

func TestTokenManager_RejectsEmptySubject(t *testing.T) {
	tm := NewTokenManager(testSecret, "webhooks-api", 1)
	_, err := tm.GenerateToken("", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, "webhooks-api", -1)
	token, err := tm.GenerateToken("ci-bot", RoleAdmin)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecretOrIssuer(t *testing.T) {
	token, err := NewTokenManager(testSecret, "webhooks-api", 1).GenerateToken("ci-bot", RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret-xx", "webhooks-api", 1).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager(testSecret, "someone-else", 1).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager(testSecret, "webhooks-api", 1).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("abc", "abc"))
	assert.False(t, TimingSafeCompare("abc", "abd"))
	assert.False(t, TimingSafeCompare("abc", ""))
}
