// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"atlas/internal/domain/entity"
)

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the outcome of a successful signup or login.
type AuthResult struct {
	Principal *entity.Principal `json:"principal"`
	Tokens    TokenPair         `json:"tokens"`
}

// AuthUsecase defines the interface for session management operations.
type AuthUsecase interface {
	// SignUp registers a new account with the identity provider and opens a
	// session for it.
	SignUp(ctx context.Context, email, password, displayName string) (*AuthResult, error)

	// Login verifies credentials with the identity provider and opens a
	// session.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the principal's provider-side sessions. The access token
	// itself expires naturally.
	Logout(ctx context.Context, uid string) error
}
