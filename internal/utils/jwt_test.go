package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/model"
)

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("k", model.User{ID: 42, Role: model.RoleOwner}, 15*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil })
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "OWNER", claims["role"])
}

func TestNewAccessTokenRejectsBadUser(t *testing.T) {
	_, err := NewAccessToken("k", model.User{ID: 0, Role: model.RoleOwner}, time.Minute)
	assert.Error(t, err)
	_, err = NewAccessToken("k", model.User{ID: 1, Role: "ADMIN"}, time.Minute)
	assert.Error(t, err)
}
