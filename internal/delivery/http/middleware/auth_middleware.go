// Package middleware contains the echo middleware for the HTTP delivery.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"atlas/config"
	"atlas/internal/delivery/http/response"
	"atlas/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is the echo context key under which the authenticated
// principal's UID is stored.
const ContextKeyUserID = "userID"

// TargetFunc names the in-app destination a gated request was trying to
// reach, used to build the post-login return path.
type TargetFunc func(c echo.Context) string

// AuthMiddleware provides middleware for JWT session validation and the
// session gate on protected routes.
type AuthMiddleware struct {
	tokenSvc  service.TokenService
	secret    string
	loginPath string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:  tokenSvc,
		secret:    cfg.SecretKey.Access,
		loginPath: cfg.AuthGate.LoginPath,
	}
}

// principalUID resolves the UID from the Bearer access token, if any.
func (m *AuthMiddleware) principalUID(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", false
	}

	token, err := m.tokenSvc.ValidateToken(tokenString, m.secret)
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return "", false
	}

	uid, _ := claims["sub"].(string)

	return uid, uid != ""
}

// Authenticate validates the access token and stores the principal UID on
// the context. API routes use this; an anonymous request gets a 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := m.principalUID(c)
		if !ok {
			return response.Unauthorized(c, "AUTH_REQUIRED", "Please sign in to continue")
		}

		c.Set(ContextKeyUserID, uid)

		return next(c)
	}
}

// RequireSession is the session gate for routes a signed-out visitor may
// stumble into. With a valid session it proceeds synchronously, without any
// network round trip; without one it redirects to the login page carrying the
// intended destination, and the handler is never invoked.
func (m *AuthMiddleware) RequireSession(target TargetFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := m.principalUID(c)
			if !ok {
				location := m.loginPath + "?from=" + url.QueryEscape(target(c))

				return c.Redirect(http.StatusFound, location)
			}

			c.Set(ContextKeyUserID, uid)

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated principal's UID from the context.
// It must be used behind Authenticate or RequireSession.
func GetUserID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyUserID).(string)

	return uid
}
