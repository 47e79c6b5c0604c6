// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"atlas/config"
	deliverycontext "atlas/internal/delivery/context"
	"atlas/internal/domain/entity"
	domainerrors "atlas/internal/domain/errors"
	"atlas/internal/domain/service"
	"atlas/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	identity      service.IdentityProvider
	tokens        service.TokenService
	refreshSecret string
	logger        *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	identity service.IdentityProvider,
	tokens service.TokenService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		identity:      identity,
		tokens:        tokens,
		refreshSecret: cfg.SecretKey.Refresh,
		logger:        logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignUp registers a new account and opens a session for it.
func (srv *authService) SignUp(ctx context.Context, email, password, displayName string) (*usecase.AuthResult, error) {
	srv.log(ctx).Info("Signing up", slog.String("email", email))

	principal, err := srv.identity.SignUp(ctx, &service.SignUpInput{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			return nil, domainerrors.ErrEmailAlreadyExists
		}
		srv.log(ctx).Error("Sign up failed", slog.Any("error", err), slog.String("email", email))

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("sign up failed")
	}

	return srv.openSession(ctx, principal)
}

// Login verifies credentials and opens a session.
func (srv *authService) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	srv.log(ctx).Info("Logging in", slog.String("email", email))

	principal, err := srv.identity.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		srv.log(ctx).Error("Login failed", slog.Any("error", err), slog.String("email", email))

		return nil, domainerrors.ErrServiceUnavailable.WrapMessage("login failed")
	}

	return srv.openSession(ctx, principal)
}

// Refresh exchanges a valid refresh token for a new pair.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	token, err := srv.tokens.ValidateToken(refreshToken, srv.refreshSecret)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	access, refresh, err := srv.tokens.GenerateTokens(uid)
	if err != nil {
		srv.log(ctx).Error("Token generation failed", slog.Any("error", err), slog.String("uid", uid))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to generate tokens")
	}

	srv.log(ctx).Debug("Refreshed session", slog.String("uid", uid))

	return &usecase.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the principal's provider-side sessions.
func (srv *authService) Logout(ctx context.Context, uid string) error {
	srv.log(ctx).Info("Logging out", slog.String("uid", uid))

	if err := srv.identity.Revoke(ctx, uid); err != nil {
		srv.log(ctx).Error("Logout failed", slog.Any("error", err), slog.String("uid", uid))

		return domainerrors.ErrServiceUnavailable.WrapMessage("logout failed")
	}

	return nil
}

func (srv *authService) openSession(ctx context.Context, principal *entity.Principal) (*usecase.AuthResult, error) {
	access, refresh, err := srv.tokens.GenerateTokens(principal.UID)
	if err != nil {
		srv.log(ctx).Error("Token generation failed", slog.Any("error", err), slog.String("uid", principal.UID))

		return nil, domainerrors.ErrInternalError.WrapMessage("failed to generate tokens")
	}

	srv.log(ctx).Info("Session opened", slog.String("uid", principal.UID))

	return &usecase.AuthResult{
		Principal: principal,
		Tokens:    usecase.TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
