// Package config loads the process configuration from environment variables.
//
// Configuration is read once at startup and treated as immutable for the
// lifetime of the process. A local .env file is loaded first if present
// (via godotenv), so development setups don't need to export everything by
// hand; real environment variables always win over .env values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server needs. Fields mirror the
// environment variable names.
type Config struct {
	Port   int    // PORT, default 8080
	DBPath string // DB_PATH, default data/fantasy.db

	// Legacy local-token auth.
	JWTSecret   string        // JWT_SECRET; local login/register is disabled when empty
	TokenExpiry time.Duration // ACCESS_TOKEN_EXPIRE_MINUTES, default 30m

	// Hosted identity provider.
	AuthProviderURL string // AUTH_PROVIDER_URL; provider verification is disabled when empty
	AuthProviderKey string // AUTH_PROVIDER_KEY, the project's publishable API key

	AllowedOrigins []string // ALLOWED_ORIGINS, comma-separated

	// Carried from the suggestion pipeline's configuration surface.
	// The API does not enforce this limit; the pipeline reads it.
	AIRequestsPerHour int // AI_REQUESTS_PER_HOUR, default 20
}

// Load reads ./.env (if it exists) and then the environment.
// Returns an error only for values that are present but malformed —
// missing optional values fall back to defaults.
func Load() (*Config, error) {
	// godotenv.Load never overrides variables that are already set,
	// so the real environment takes precedence over the .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		Port:              8080,
		DBPath:            "data/fantasy.db",
		TokenExpiry:       30 * time.Minute,
		AIRequestsPerHour: 20,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("config: invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		cfg.TokenExpiry = time.Duration(minutes) * time.Minute
	}

	cfg.AuthProviderURL = strings.TrimRight(os.Getenv("AUTH_PROVIDER_URL"), "/")
	cfg.AuthProviderKey = os.Getenv("AUTH_PROVIDER_KEY")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("AI_REQUESTS_PER_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: invalid AI_REQUESTS_PER_HOUR %q", v)
		}
		cfg.AIRequestsPerHour = n
	}

	return cfg, nil
}
