package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// RequireRole rejects callers whose role is not listed with 403.  It must
// run after JWTAuth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			}
			if !allowed[u.Role] {
				return errorJSON(c, http.StatusForbidden, "FORBIDDEN", "role "+string(u.Role)+" cannot access this resource")
			}
			return next(c)
		}
	}
}
