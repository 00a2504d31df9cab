// Package auth exchanges a pre-shared API key for signed JWT access tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GrytsenkoAndrey/ed-go-custom-response/internal/config"
)

const tokenTTL = 30 * 24 * time.Hour

// ErrInvalidAPIKey is returned when the supplied API key does not match.
var ErrInvalidAPIKey = errors.New("invalid API key")

// Service contains the token-issuing logic.
type Service struct {
	cfg *config.Config
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// IssueToken validates the API key and returns a signed HS256 JWT for the
// named client. The comparison is constant-time.
func (s *Service) IssueToken(apiKey, client string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.cfg.APIKey)) != 1 {
		return "", ErrInvalidAPIKey
	}

	claims := jwt.MapClaims{
		"sub": client,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
