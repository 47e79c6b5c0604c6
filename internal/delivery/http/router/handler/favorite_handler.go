package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"atlas/internal/delivery/http/middleware"
	"atlas/internal/delivery/http/response"
	"atlas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FavoriteHandler holds dependencies for favorite management handlers.
type FavoriteHandler struct {
	uc     usecase.FavoriteUsecase
	logger *slog.Logger
}

// NewFavoriteHandler is the constructor for FavoriteHandler, injected by Fx.
func NewFavoriteHandler(uc usecase.FavoriteUsecase, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		uc:     uc,
		logger: logger,
	}
}

// List handles the favorites page request for the authenticated principal.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid := middleware.GetUserID(c)

	favorites, err := h.uc.List(c.Request().Context(), uid)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, favorites, "Favorites retrieved successfully")
}

// Status reports the favorite state of one country for the principal.
func (h *FavoriteHandler) Status(c echo.Context) error {
	uid := middleware.GetUserID(c)
	code := strings.ToUpper(c.Param("code"))

	status, err := h.uc.Status(c.Request().Context(), uid, code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "Favorite status retrieved successfully")
}

// Toggle flips the favorite state of one country for the principal.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid := middleware.GetUserID(c)
	code := strings.ToUpper(c.Param("code"))

	status, err := h.uc.Toggle(c.Request().Context(), uid, code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "Favorite toggled successfully")
}

// Remove deletes one favorite from the principal's list.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid := middleware.GetUserID(c)
	code := strings.ToUpper(c.Param("code"))

	if err := h.uc.Remove(c.Request().Context(), uid, code); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"country_code": code}, "Favorite removed successfully")
}
