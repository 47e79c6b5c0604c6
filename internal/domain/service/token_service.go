package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for issuing and validating the session
// tokens this service hands out after identity-provider sign-in.
type TokenService interface {
	// GenerateTokens creates a new access/refresh token pair for a principal.
	GenerateTokens(uid string) (accessToken string, refreshToken string, err error)

	// ValidateToken checks the validity of a token string against a secret.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)
}
