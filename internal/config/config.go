// Package config manages the application configuration.
// Settings are read from environment variables with sane defaults.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultAddr          = ":8080"
	defaultSendQueueSize = 32 // outbound frames buffered per connection
)

// defaultAllowedOrigins is the CORS allowlist used when none is configured.
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
}

// Config holds the runtime configuration of the relay.
type Config struct {
	Addr          string   // HTTP listen address
	RedisAddr     string   // cross-process bus; empty disables the bus
	DatabaseURL   string   // identity store; empty means every token degrades to guest
	JWTSecret     string   // shared secret for bearer-token validation
	SendQueueSize int      // per-connection outbound queue capacity
	AllowedOrigin []string // CORS allowlist
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset.
func Load() Config {
	return Config{
		Addr:          envOr("ADDR", defaultAddr),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SendQueueSize: envInt("SEND_QUEUE_SIZE", defaultSendQueueSize),
		AllowedOrigin: envCSV("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an integer from the environment, falling back to def when
// the variable is unset or not a number.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid %s=%s, fallback to default (%d)", key, v, def)
			return def
		}
		return i
	}
	return def
}

// envCSV reads a comma-separated list from the environment.
func envCSV(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
