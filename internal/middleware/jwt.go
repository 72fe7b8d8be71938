// Package middleware holds the echo middleware shared by every route group.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// JWTAuth validates an HS256 bearer token and stores the caller's id and
// role in the context for CurrentUser.  The token must carry a numeric
// "sub" and a "role" of SEEKER or OWNER.
func JWTAuth(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			}

			id, err := subject(claims["sub"])
			if err != nil {
				return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject")
			}
			roleStr, _ := claims["role"].(string)
			role := model.Role(strings.ToUpper(roleStr))
			if !role.Valid() {
				return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid role")
			}

			c.Set(ctxUserID, id)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// subject accepts the id as a JSON number or a decimal string.
func subject(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case float64:
		if t <= 0 || t != float64(uint64(t)) {
			return 0, fmt.Errorf("bad subject %v", t)
		}
		return uint64(t), nil
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil || n == 0 {
			return 0, fmt.Errorf("bad subject %q", t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("missing subject")
}
