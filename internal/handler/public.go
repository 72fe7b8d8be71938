package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/service"
)

// PublicHandler serves unauthenticated browsing of active listings.
type PublicHandler struct {
	svc *service.PropertyService
}

// NewPublicHandler panics if svc is nil.
func NewPublicHandler(svc *service.PropertyService) *PublicHandler {
	if svc == nil {
		panic("nil property service passed to NewPublicHandler")
	}
	return &PublicHandler{svc: svc}
}

// ListProperties handles GET /v1/properties?q=&electricity=&cleaning=.
func (h *PublicHandler) ListProperties(c echo.Context) error {
	f := model.PropertyFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
	var err error
	if f.ElectricityIncluded, err = queryBool(c, "electricity"); err != nil {
		return writeError(c, err)
	}
	if f.CleaningIncluded, err = queryBool(c, "cleaning"); err != nil {
		return writeError(c, err)
	}
	props, err := h.svc.Browse(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": props})
}

// GetProperty handles GET /v1/properties/:id.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.svc.GetPublic(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
