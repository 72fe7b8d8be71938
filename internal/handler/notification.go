package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/service"
)

// NotificationHandler serves the polled notification feed.
type NotificationHandler struct {
	svc *service.NotificationService
}

// NewNotificationHandler panics if svc is nil.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	if svc == nil {
		panic("nil notification service passed to NewNotificationHandler")
	}
	return &NotificationHandler{svc: svc}
}

// List handles GET /v1/notifications?cursor=&limit=.
func (h *NotificationHandler) List(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			return writeError(c, &service.Error{Kind: service.KindValidation, Message: "limit must be a positive integer"})
		}
	}
	page, err := h.svc.List(c.Request().Context(), u, c.QueryParam("cursor"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
