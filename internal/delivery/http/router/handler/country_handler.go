package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"atlas/internal/delivery/http/response"
	"atlas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CountryHandler holds dependencies for country browsing handlers.
type CountryHandler struct {
	uc     usecase.CountryUsecase
	logger *slog.Logger
}

// NewCountryHandler is the constructor for CountryHandler, injected by Fx.
func NewCountryHandler(uc usecase.CountryUsecase, logger *slog.Logger) *CountryHandler {
	return &CountryHandler{
		uc:     uc,
		logger: logger,
	}
}

// List handles the country list request with optional search and region
// filters.
func (h *CountryHandler) List(c echo.Context) error {
	search := c.QueryParam("search")
	region := c.QueryParam("region")

	countries, err := h.uc.List(c.Request().Context(), search, region)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, countries, "Countries retrieved successfully")
}

// Detail handles the country detail request, border stubs included.
func (h *CountryHandler) Detail(c echo.Context) error {
	code := strings.ToUpper(c.Param("code"))

	detail, err := h.uc.Detail(c.Request().Context(), code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detail, "Country retrieved successfully")
}

// ShareQR serves the QR code PNG for a country's share link.
func (h *CountryHandler) ShareQR(c echo.Context) error {
	code := strings.ToUpper(c.Param("code"))

	png, err := h.uc.ShareQR(c.Request().Context(), code)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
