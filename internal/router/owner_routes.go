package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/middleware"
	"github.com/iliyamo/dorm-booking/internal/model"
)

// RegisterOwner registers OWNER-only endpoints under /v1/owner.
func RegisterOwner(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
		h.RateLimit,
	)

	g.POST("/properties", h.Properties.Create)
	g.GET("/properties", h.Properties.List)
	g.GET("/properties/:id", h.Properties.Get)
	g.PATCH("/properties/:id", h.Properties.Update)
	g.DELETE("/properties/:id", h.Properties.Delete)

	g.POST("/properties/:id/rooms", h.Properties.CreateRoom)
	g.PUT("/rooms/:id", h.Properties.UpdateRoom)
	g.DELETE("/rooms/:id", h.Properties.DeleteRoom)

	g.GET("/bookings", h.Bookings.ListOwned)
	g.POST("/media", h.Media.Upload)
}
