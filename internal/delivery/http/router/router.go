// Package router contains routing setup for the HTTP delivery.
package router

import (
	"atlas/internal/delivery/http/middleware"
	"atlas/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	CountryHandler  *handler.CountryHandler
	FavoriteHandler *handler.FavoriteHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	countryHandler  *handler.CountryHandler
	favoriteHandler *handler.FavoriteHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		countryHandler:  params.CountryHandler,
		favoriteHandler: params.FavoriteHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
	}

	// Country browsing is public
	countryGroup := e.Group("/countries")
	{
		countryGroup.GET("", r.countryHandler.List)
		countryGroup.GET("/:code", r.countryHandler.Detail)
		countryGroup.GET("/:code/qr", r.countryHandler.ShareQR)
	}

	// Favorites are session gated. A signed-out visitor is redirected to
	// login carrying the destination they were after: the country page for
	// toggles, the favorites page otherwise.
	favoriteGroup := e.Group("/favorites")
	{
		favoriteGroup.GET("", r.favoriteHandler.List,
			r.authMiddleware.RequireSession(func(echo.Context) string { return "/favorites" }))
		favoriteGroup.GET("/:code", r.favoriteHandler.Status,
			r.authMiddleware.Authenticate)
		favoriteGroup.POST("/:code", r.favoriteHandler.Toggle,
			r.authMiddleware.RequireSession(countryTarget))
		favoriteGroup.DELETE("/:code", r.favoriteHandler.Remove,
			r.authMiddleware.RequireSession(func(echo.Context) string { return "/favorites" }))
	}
}

// countryTarget names the country detail page a toggle came from.
func countryTarget(c echo.Context) string {
	return "/country/" + c.Param("code")
}
