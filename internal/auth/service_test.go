package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrytsenkoAndrey/ed-go-custom-response/internal/config"
)

func testService() *Service {
	return NewService(&config.Config{
		APIKey:    "dev_api_key",
		JWTSecret: "test_secret",
	})
}

func TestIssueToken_ValidKey(t *testing.T) {
	token, err := testService().IssueToken("dev_api_key", "dashboard")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "dashboard", claims["sub"])
	assert.NotZero(t, claims["exp"])
}

func TestIssueToken_WrongKey(t *testing.T) {
	token, err := testService().IssueToken("wrong", "dashboard")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}
