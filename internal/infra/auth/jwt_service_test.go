package auth

import (
	"testing"
	"time"

	"sabor/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig())
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token structure")
}

func TestJWTService_WrongSecretFails(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig())
	require.NoError(t, err)

	otherCfg := newJWTTestConfig()
	otherCfg.SecretKey.Access = "a_completely_different_access_secret"
	otherCfg.SecretKey.Refresh = "a_completely_different_refresh_secret"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	accessToken, _, err := jwtService.GenerateTokens(uuid.New())
	require.NoError(t, err)

	_, err = otherService.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_MissingSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig())
	require.NoError(t, err)

	hash := jwtService.HashToken("some-refresh-token")
	assert.Len(t, hash, 64) // Hex-encoded SHA-256.
	assert.Equal(t, hash, jwtService.HashToken("some-refresh-token"))
	assert.NotEqual(t, hash, jwtService.HashToken("another-refresh-token"))
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, jwtService.GetRefreshTokenDuration())
}
