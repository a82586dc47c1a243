package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: []byte("test-secret"), Expiry: 30 * time.Minute}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)
	assert.True(t, VerifyPassword("hunter2hunter2", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateToken(t *testing.T) {
	cfg := testAuthConfig()

	raw, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(cfg.Expiry), exp.Time, time.Minute)
}

func TestTokenBlacklist(t *testing.T) {
	DB = setupTestDB(t)

	assert.False(t, IsTokenBlacklisted("some-token"))

	require.NoError(t, DB.Create(&BlacklistedToken{Token: "some-token"}).Error)
	assert.True(t, IsTokenBlacklisted("some-token"))
	assert.False(t, IsTokenBlacklisted("another-token"))
}
