// Package router wires handlers and middleware onto echo routes.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/handler"
	"github.com/iliyamo/dorm-booking/internal/middleware"
)

// Handlers bundles everything the route groups need.
type Handlers struct {
	DB            *sql.DB
	JWTSecret     string
	RateLimit     echo.MiddlewareFunc
	BrowseCache   *middleware.BrowseCache
	Properties    *handler.PropertyHandler
	Bookings      *handler.BookingHandler
	Notifications *handler.NotificationHandler
	Public        *handler.PublicHandler
	Media         *handler.MediaHandler
}

// Register mounts every route group.
func Register(e *echo.Echo, h Handlers) {
	if h.RateLimit == nil {
		h.RateLimit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	RegisterRoutes(e, h.DB)
	RegisterPublic(e, h.Public, h.BrowseCache, h.RateLimit)
	RegisterOwner(e, h, h.JWTSecret)
	RegisterSeeker(e, h, h.JWTSecret)
	RegisterShared(e, h, h.JWTSecret)
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterPublic registers guest browsing of active listings.  Responses
// go through the browse cache, which every listing or inventory change
// invalidates.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache *middleware.BrowseCache, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/properties", rl, cache.Middleware())
	g.GET("", p.ListProperties)
	g.GET("/:id", p.GetProperty)
}
