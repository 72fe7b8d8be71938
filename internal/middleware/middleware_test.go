package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dorm-booking/internal/config"
	"github.com/iliyamo/dorm-booking/internal/model"
)

const secret = "s3cret"

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// whoami echoes the authenticated caller.
func whoami(c echo.Context) error {
	u, ok := CurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusTeapot)
	}
	return c.JSON(http.StatusOK, u)
}

func serve(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, JWTAuth(secret))
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"numeric sub", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7, "role": "OWNER", "exp": exp}), http.StatusOK},
		{"string sub", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "role": "seeker", "exp": exp}), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"expired", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7, "role": "OWNER", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"other alg", sign(t, jwt.SigningMethodHS384, jwt.MapClaims{"sub": 7, "role": "OWNER", "exp": exp}), http.StatusUnauthorized},
		{"bad role", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7, "role": "ADMIN", "exp": exp}), http.StatusUnauthorized},
		{"zero sub", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 0, "role": "OWNER", "exp": exp}), http.StatusUnauthorized},
		{"fractional sub", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7.5, "role": "OWNER", "exp": exp}), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(e, tc.token)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	rec := serve(e, cases[1].token)
	assert.JSONEq(t, `{"id":7,"role":"SEEKER"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, JWTAuth(secret), RequireRole(model.RoleOwner))
	exp := time.Now().Add(time.Hour).Unix()

	rec := serve(e, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1, "role": "SEEKER", "exp": exp}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"FORBIDDEN"`)

	rec = serve(e, sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1, "role": "OWNER", "exp": exp}))
	assert.Equal(t, http.StatusOK, rec.Code)

	bare := echo.New()
	bare.GET("/me", whoami, RequireRole(model.RoleOwner))
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestLocalTokenBucket(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") }, NewTokenBucket(cfg, nil))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, hit("192.0.2.1").Code)
	second := hit("192.0.2.1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := hit("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, hit("192.0.2.2").Code)
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(config.RateLimitConfig{}, nil))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	req.RemoteAddr = "198.51.100.4:80"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/notifications")
	c.Set(ctxUserID, uint64(9))
	c.Set(ctxRole, model.RoleSeeker)

	assert.Equal(t, "rl:ip:198.51.100.4", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:user:9", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
	assert.Equal(t, "rl:ip:198.51.100.4:user:9:route:GET /v1/notifications", rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestBrowseCacheInertWithoutRedis(t *testing.T) {
	cache := NewBrowseCache(config.CacheConfig{Enabled: true, Prefix: "browse"}, nil)
	require.NoError(t, cache.Invalidate(context.Background()))

	calls := 0
	e := echo.New()
	e.GET("/v1/properties", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "list")
	}, cache.Middleware())
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/properties", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)

	var nilCache *BrowseCache
	assert.NoError(t, nilCache.Invalidate(context.Background()))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, got.Get(echo.HeaderContentType))
	assert.Equal(t, `{"items":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte("junk"))
	assert.False(t, ok)
}
