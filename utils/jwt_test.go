package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodtrack/moodtrack/config"
)

func init() {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret", AuthTTLMinutes: 5})
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(7, "u1", 5*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "u1", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(7, "u1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseTokenMalformed(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.True(t, errors.Is(err, jwt.ErrTokenMalformed))
}

func TestParseTokenWrongSecret(t *testing.T) {
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   7,
		Username: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = ParseToken(signed)
	require.Error(t, err)
	assert.False(t, errors.Is(err, jwt.ErrTokenExpired))
	assert.False(t, errors.Is(err, jwt.ErrTokenMalformed))
}

func TestTokensAreUnique(t *testing.T) {
	a, err := GenerateToken(7, "u1", 5*time.Minute)
	require.NoError(t, err)
	b, err := GenerateToken(7, "u1", 5*time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)

	assert.True(t, CheckPassword(hash, "p1"))
	assert.False(t, CheckPassword(hash, "p2"))
}
