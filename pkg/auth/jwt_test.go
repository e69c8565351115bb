package auth

import (
	"testing"
	"time"

	"github.com/caredesk/hospital-api/internal/config"
	"github.com/caredesk/hospital-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters-long",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "hospital-api",
	})
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	mgr := testManager(15 * time.Minute)
	userID := uuid.New()

	pair, err := mgr.GenerateTokenPair(&domain.Claims{
		UserID: userID,
		Email:  "doc@example.com",
		Role:   domain.RoleDoctor,
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := mgr.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "doc@example.com", claims.Email)
	assert.Equal(t, domain.RoleDoctor, claims.Role)

	claims, err = mgr.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	mgr := testManager(15 * time.Minute)

	pair, err := mgr.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	// A refresh token must not be usable as an access token, and vice versa.
	_, err = mgr.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = mgr.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	mgr := testManager(-1 * time.Minute)

	pair, err := mgr.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_RejectsForeignSignature(t *testing.T) {
	mgr := testManager(15 * time.Minute)
	other := NewJWTManager(config.JWTConfig{
		Secret:          "a-different-secret-also-32-characters!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "hospital-api",
	})

	pair, err := other.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_RejectsGarbage(t *testing.T) {
	mgr := testManager(15 * time.Minute)

	_, err := mgr.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
