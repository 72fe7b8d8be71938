package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/middleware"
	"github.com/iliyamo/dorm-booking/internal/model"
)

// RegisterSeeker registers the SEEKER-only booking endpoints.
func RegisterSeeker(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1/bookings",
		middleware.JWTAuth(jwtSecret),
		h.RateLimit,
	)
	seeker := middleware.RequireRole(model.RoleSeeker)
	g.POST("", h.Bookings.Create, seeker)
	g.GET("", h.Bookings.ListMine, seeker)
}

// RegisterShared registers endpoints both roles use; the service decides
// what each caller may see or do.
func RegisterShared(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		h.RateLimit,
	)
	g.GET("/bookings/:id", h.Bookings.Get)
	g.POST("/bookings/:id/transition", h.Bookings.Transition)
	g.POST("/bookings/:id/approve", h.Bookings.Event(model.EventApprove))
	g.POST("/bookings/:id/reject", h.Bookings.Event(model.EventReject))
	g.POST("/bookings/:id/cancel", h.Bookings.Event(model.EventCancel))
	g.GET("/notifications", h.Notifications.List)
}
