// Package handler adapts HTTP requests to the service layer.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/middleware"
	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/service"
)

var errUnauthenticated = errors.New("unauthenticated")

// currentUser returns the caller authenticated by middleware.JWTAuth.
func currentUser(c echo.Context) (model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, errUnauthenticated
	}
	return u, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{Kind: service.KindValidation, Message: "invalid " + name}
	}
	return id, nil
}

// queryUint parses an optional numeric query parameter; absent is 0.
func queryUint(c echo.Context, name string) (uint64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &service.Error{Kind: service.KindValidation, Message: "invalid " + name}
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter; absent is nil.
func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &service.Error{Kind: service.KindValidation, Message: name + " must be true or false"}
	}
	return &b, nil
}

// force reports whether the caller asked for a forced cascade.
func force(c echo.Context) (bool, error) {
	b, err := queryBool(c, "force")
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}

// bind decodes the JSON body into v.
func bind(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		msg := "invalid request body"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		return &service.Error{Kind: service.KindValidation, Message: msg}
	}
	return nil
}

var statusByKind = map[service.Kind]int{
	service.KindValidation:            http.StatusBadRequest,
	service.KindForbidden:             http.StatusForbidden,
	service.KindNotFound:              http.StatusNotFound,
	service.KindInsufficientInventory: http.StatusConflict,
	service.KindInvalidTransition:     http.StatusConflict,
	service.KindRoomHasActiveBookings: http.StatusConflict,
}

// writeError renders err in the shared error envelope.  Unclassified
// errors are logged and reported as a generic 500.
func writeError(c echo.Context, err error) error {
	if errors.Is(err, errUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", "authentication required"))
	}
	if e, ok := service.AsError(err); ok {
		if status, ok := statusByKind[e.Kind]; ok {
			return c.JSON(status, errorBody(string(e.Kind), e.Message))
		}
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, errorBody("INTERNAL", "internal server error"))
}

func errorBody(kind, msg string) echo.Map {
	return echo.Map{"error": echo.Map{"kind": kind, "message": msg}}
}
