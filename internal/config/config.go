// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, database, and
// reservation behavior.
type Config struct {
	HTTPAddr        string
	DBPath          string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
	ReserveRetryMax int
	BcryptCost      int
	LogLevel        string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func durenvmin(key string, defMin int) time.Duration {
	min := atoienv(key, defMin)
	return time.Duration(min) * time.Minute
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		DBPath:          getenv("DB_PATH", "reservd.db"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		SessionTTL:      durenvmin("SESSION_TTL_MIN", 60),
		ReserveRetryMax: atoienv("RESERVE_RETRY_MAX", 3),
		BcryptCost:      atoienv("BCRYPT_COST", 0),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}
