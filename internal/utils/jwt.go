// Package utils holds small helpers shared by the commands and tests.
package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// AccessToken is a signed bearer token and its expiry.
type AccessToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires_at"`
}

// NewAccessToken signs an HS256 token for u that middleware.JWTAuth
// accepts: a numeric sub, the role, exp and iat.
func NewAccessToken(secret string, u model.User, ttl time.Duration) (AccessToken, error) {
	if u.ID == 0 || !u.Role.Valid() {
		return AccessToken{}, fmt.Errorf("invalid user %d/%q", u.ID, u.Role)
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
