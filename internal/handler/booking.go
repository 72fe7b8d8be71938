package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/service"
)

// BookingHandler serves booking requests for both seekers and owners.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler panics if svc is nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var in service.BookingInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	b, err := h.svc.Create(c.Request().Context(), u, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListMine handles GET /v1/bookings?status=&property_id=&room_id= for seekers.
func (h *BookingHandler) ListMine(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := bookingFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.svc.ListForSeeker(c.Request().Context(), u, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListOwned handles GET /v1/owner/bookings?status=&property_id=&room_id=.
func (h *BookingHandler) ListOwned(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	f, err := bookingFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.svc.ListForOwner(c.Request().Context(), u, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.svc.Get(c.Request().Context(), u, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Transition handles POST /v1/bookings/:id/transition with an explicit
// event in the body.
func (h *BookingHandler) Transition(c echo.Context) error {
	var in service.TransitionInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.transition(c, in)
}

// Event returns a handler for POST /v1/bookings/:id/<event>; the body may
// carry a note and an expected_status.
func (h *BookingHandler) Event(ev model.BookingEvent) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in service.TransitionInput
		if err := bind(c, &in); err != nil {
			return writeError(c, err)
		}
		in.Event = ev
		return h.transition(c, in)
	}
}

func (h *BookingHandler) transition(c echo.Context, in service.TransitionInput) error {
	u, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.svc.Transition(c.Request().Context(), u, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func bookingFilter(c echo.Context) (model.BookingFilter, error) {
	var err error
	f := model.BookingFilter{Status: model.BookingStatus(c.QueryParam("status"))}
	if f.PropertyID, err = queryUint(c, "property_id"); err != nil {
		return f, err
	}
	f.RoomID, err = queryUint(c, "room_id")
	return f, err
}
