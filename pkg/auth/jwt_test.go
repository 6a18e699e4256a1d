package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "dev@example.com",
		Role:  domain.UserRoleManager,
	}
}

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "project-hub", 15*time.Minute, 24*time.Hour)

	pair, err := m.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, domain.UserRoleManager, claims.Role)

	actor := claims.Actor()
	assert.Equal(t, "user-1", actor.ID)
	assert.Equal(t, domain.UserRoleManager, actor.Role)

	refreshClaims, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
}

func TestJWTManagerWrongTokenType(t *testing.T) {
	m := NewJWTManager("secret", "project-hub", 15*time.Minute, 24*time.Hour)

	pair, err := m.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTManagerWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", "project-hub", 15*time.Minute, 24*time.Hour)

	pair, err := m.GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTManager("another-secret", "project-hub", 15*time.Minute, 24*time.Hour)
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManagerExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", "project-hub", -time.Minute, 24*time.Hour)

	pair, err := m.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManagerGarbage(t *testing.T) {
	m := NewJWTManager("secret", "project-hub", 15*time.Minute, 24*time.Hour)

	_, err := m.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
