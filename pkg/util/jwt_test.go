package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateAndValidateToken(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		email  string
		role   string
	}{
		{name: "regular user", userID: "u-1", email: "ana@example.com", role: "user"},
		{name: "business owner", userID: "u-2", email: "dono@example.com", role: "owner"},
		{name: "admin", userID: "u-3", email: "admin@example.com", role: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(tt.userID, tt.email, tt.role, testSecret, 15*time.Minute, 24*time.Hour)
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
			assert.Equal(t, int64(900), tokens.ExpiresIn)

			claims, err := ValidateToken(tokens.AccessToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestValidateTokenErrors(t *testing.T) {
	expired, err := GenerateTokenPair("u-1", "a@b.c", "user", testSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(expired.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)

	valid, err := GenerateTokenPair("u-1", "a@b.c", "user", testSecret, time.Minute, time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(valid.AccessToken, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
