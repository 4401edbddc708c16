// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/handler"
	"github.com/iliyamo/attraction-reservation/internal/middleware"
	"github.com/iliyamo/attraction-reservation/internal/model"
)

// RegisterRoutes registers routes that require no authentication at
// all.  Currently this is just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication routes.
// Unauthenticated session operations live under /v1/auth; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes either a bearer token (revoke all sessions) or a
	// refresh token in the body (revoke one), so it stays outside the
	// JWT-protected group.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	auth.GET("/me", a.Me)
}
