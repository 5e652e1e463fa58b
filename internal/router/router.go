// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/handler"
)

// RegisterRoutes sets up routes that carry no auth at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuthRoutes sets up the authentication endpoints.  Everything
// except /me is public; /me runs behind the supplied auth middleware.
func RegisterAuthRoutes(e *echo.Echo, h *handler.AuthHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/refresh-access", h.RefreshAccess)
	g.POST("/logout", h.Logout)

	e.GET("/v1/me", h.Me, auth)
}

// RegisterPublicRoutes sets up the unauthenticated room listings.  The
// optional cache middleware is applied to the listing endpoints only,
// since they are read-heavy and identical for every visitor.
func RegisterPublicRoutes(e *echo.Echo, h *handler.PublicRoomHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("", h.Browse)
	g.GET("/:id", h.Detail)
}
