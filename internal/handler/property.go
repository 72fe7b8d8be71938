package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/service"
)

// PropertyHandler serves the owner's property and room endpoints.
type PropertyHandler struct {
	svc *service.PropertyService
}

// NewPropertyHandler panics if svc is nil.
func NewPropertyHandler(svc *service.PropertyService) *PropertyHandler {
	if svc == nil {
		panic("nil property service passed to NewPropertyHandler")
	}
	return &PropertyHandler{svc: svc}
}

// Create handles POST /v1/owner/properties.
func (h *PropertyHandler) Create(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var in service.PropertyInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.svc.Create(c.Request().Context(), u, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/owner/properties.
func (h *PropertyHandler) List(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	props, err := h.svc.ListOwned(c.Request().Context(), u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": props})
}

// Get handles GET /v1/owner/properties/:id.
func (h *PropertyHandler) Get(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.svc.Get(c.Request().Context(), u, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PATCH /v1/owner/properties/:id.  A rooms or images key in
// the body replaces that whole collection; ?force=true allows removing
// rooms that still have live bookings.
func (h *PropertyHandler) Update(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	f, err := force(c)
	if err != nil {
		return writeError(c, err)
	}
	var in service.PropertyPatch
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.svc.Update(c.Request().Context(), u, id, in, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/owner/properties/:id.
func (h *PropertyHandler) Delete(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	f, err := force(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), u, id, f); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /v1/owner/properties/:id/rooms.
func (h *PropertyHandler) CreateRoom(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in service.RoomInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.svc.CreateRoom(c.Request().Context(), u, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// UpdateRoom handles PUT /v1/owner/rooms/:id.
func (h *PropertyHandler) UpdateRoom(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in service.RoomInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	r, err := h.svc.UpdateRoom(c.Request().Context(), u, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// DeleteRoom handles DELETE /v1/owner/rooms/:id.
func (h *PropertyHandler) DeleteRoom(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	f, err := force(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.svc.DeleteRoom(c.Request().Context(), u, id, f); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
