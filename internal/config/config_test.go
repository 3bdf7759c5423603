package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads, so tests see only what they
// set themselves (t.Setenv restores everything afterwards).
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_PATH", "JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"AUTH_PROVIDER_URL", "AUTH_PROVIDER_KEY", "ALLOWED_ORIGINS",
		"AI_REQUESTS_PER_HOUR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/fantasy.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/fantasy.db")
	}
	if cfg.TokenExpiry != 30*time.Minute {
		t.Errorf("TokenExpiry = %v, want 30m", cfg.TokenExpiry)
	}
	if cfg.AIRequestsPerHour != 20 {
		t.Errorf("AIRequestsPerHour = %d, want 20", cfg.AIRequestsPerHour)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "a-secret-that-is-long-enough")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("AUTH_PROVIDER_URL", "https://example.supabase.co/")
	t.Setenv("AUTH_PROVIDER_KEY", "publishable-key")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.TokenExpiry != 15*time.Minute {
		t.Errorf("TokenExpiry = %v, want 15m", cfg.TokenExpiry)
	}
	// Trailing slash is trimmed so URL joining stays predictable.
	if cfg.AuthProviderURL != "https://example.supabase.co" {
		t.Errorf("AuthProviderURL = %q, want trailing slash trimmed", cfg.AuthProviderURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v, want two trimmed origins", cfg.AllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad port", key: "PORT", value: "not-a-number"},
		{name: "bad expiry", key: "ACCESS_TOKEN_EXPIRE_MINUTES", value: "soon"},
		{name: "negative expiry", key: "ACCESS_TOKEN_EXPIRE_MINUTES", value: "-5"},
		{name: "bad rate limit", key: "AI_REQUESTS_PER_HOUR", value: "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail for %s=%q", tt.key, tt.value)
			}
		})
	}
}
