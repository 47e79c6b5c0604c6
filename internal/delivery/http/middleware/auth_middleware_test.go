package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas/config"
	"atlas/internal/infra/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()

	cfg := &config.Config{AuthGate: &config.AuthGateConfig{LoginPath: "/login"}}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	accessToken, _, err := tokenSvc.GenerateTokens("uid-1")
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc, cfg), accessToken
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, GetUserID(c))
}

func TestRequireSession_AnonymousRedirectsToLogin(t *testing.T) {
	mw, _ := newTestAuthMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/favorites/FRA", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues("FRA")

	gate := mw.RequireSession(func(c echo.Context) string {
		return "/country/" + c.Param("code")
	})

	err := gate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?from=%2Fcountry%2FFRA", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireSession_ValidSessionProceeds(t *testing.T) {
	mw, accessToken := newTestAuthMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	gate := mw.RequireSession(func(echo.Context) string { return "/favorites" })

	err := gate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-1", rec.Body.String())
}

func TestRequireSession_GarbageTokenRedirects(t *testing.T) {
	mw, _ := newTestAuthMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	gate := mw.RequireSession(func(echo.Context) string { return "/favorites" })

	err := gate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestAuthenticate_MissingTokenReturns401(t *testing.T) {
	mw, _ := newTestAuthMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw.Authenticate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RejectsRefreshTokenAsAccess(t *testing.T) {
	cfg := &config.Config{AuthGate: &config.AuthGateConfig{LoginPath: "/login"}}
	cfg.SecretKey.Access = "same-secret"
	cfg.SecretKey.Refresh = "same-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	_, refreshToken, err := tokenSvc.GenerateTokens("uid-1")
	require.NoError(t, err)

	mw := NewAuthMiddleware(tokenSvc, cfg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+refreshToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = mw.Authenticate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ValidTokenSetsUserID(t *testing.T) {
	mw, accessToken := newTestAuthMiddleware(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw.Authenticate(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-1", rec.Body.String())
}
