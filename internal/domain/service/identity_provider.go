// Package service defines the interfaces for external collaborators the
// business logic depends on.
package service

import (
	"context"

	"atlas/internal/domain/entity"
	"atlas/internal/errors"
)

// Identity provider failure modes, surfaced distinctly so callers can map
// them to the right user guidance.
var (
	// ErrInvalidCredentials is returned when the email/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailAlreadyExists is returned when signing up an email that is taken.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrIdentityUnavailable is returned on transient identity backend faults.
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)

// SignUpInput carries the credentials for a new account.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
}

// IdentityProvider abstracts the external identity service. It owns
// credential storage and validation; this system never sees password hashes.
type IdentityProvider interface {
	// SignUp creates a new account and returns its principal.
	SignUp(ctx context.Context, input *SignUpInput) (*entity.Principal, error)

	// SignIn verifies an email/password pair and returns the principal.
	SignIn(ctx context.Context, email, password string) (*entity.Principal, error)

	// Revoke invalidates the provider-side sessions of a principal.
	Revoke(ctx context.Context, uid string) error
}
