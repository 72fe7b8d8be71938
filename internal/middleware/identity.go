package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// CurrentUser returns the authenticated caller stored by JWTAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	if !ok || id == 0 {
		return model.User{}, false
	}
	role, ok := c.Get(ctxRole).(model.Role)
	if !ok || !role.Valid() {
		return model.User{}, false
	}
	return model.User{ID: id, Role: role}, true
}

// userKey identifies the caller for rate limiting; anonymous callers share
// "anon".
func userKey(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}

func errorJSON(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, echo.Map{"error": echo.Map{"kind": kind, "message": msg}})
}
