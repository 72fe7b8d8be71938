package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadBookingPolicyDefaults(t *testing.T) {
	t.Setenv("BOOKING_ALLOW_FORCE_CASCADE", "")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "")
	t.Setenv("NOTIFICATIONS_MAX_PAGE_SIZE", "")

	p := LoadBookingPolicy()
	assert.True(t, p.AllowForcedCascade)
	assert.Equal(t, 20, p.NotificationPageSize)
	assert.Equal(t, 100, p.MaxNotificationPageSize)
}

func TestLoadBookingPolicyOverrides(t *testing.T) {
	t.Setenv("BOOKING_ALLOW_FORCE_CASCADE", "false")
	t.Setenv("NOTIFICATIONS_PAGE_SIZE", "50")
	t.Setenv("NOTIFICATIONS_MAX_PAGE_SIZE", "10")

	p := LoadBookingPolicy()
	assert.False(t, p.AllowForcedCascade)
	assert.Equal(t, 50, p.NotificationPageSize)
	assert.Equal(t, 50, p.MaxNotificationPageSize)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, 10*time.Second, c.TTL)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "90s")
	assert.True(t, envBool("X_BOOL", false))
	assert.True(t, envBool("X_MISSING", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, "d", envStr("X_MISSING", "d"))
}
