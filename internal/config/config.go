// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the settings every process needs.  Each field maps to one
// environment variable.
type Config struct {
	Env       string // APP_ENV: dev, test or prod
	Port      string // APP_PORT
	DBUser    string // DB_USER
	DBPass    string // DB_PASS, may be empty
	DBHost    string // DB_HOST
	DBPort    string // DB_PORT
	DBName    string // DB_NAME
	JWTSecret string // JWT_SECRET, HMAC key for bearer tokens
	TokenTTL  time.Duration
	RabbitURL string // RABBITMQ_URL, empty disables event publishing
	// AuditSchedule is a cron spec for the inventory audit; empty disables it.
	AuditSchedule string

	// RabbitDialTimeout bounds each publish's broker connect (RABBITMQ_DIAL_TIMEOUT).
	RabbitDialTimeout time.Duration
}

// Load reads the process configuration.  Missing required variables stop
// the program.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTL:      time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		RabbitURL:     envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		AuditSchedule: envStr("AUDIT_SCHEDULE", "@every 1h"),

		RabbitDialTimeout: envDur("RABBITMQ_DIAL_TIMEOUT", 2*time.Second),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
