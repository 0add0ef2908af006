// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP
	HTTPAddr string

	// Storage
	DataDir      string
	ScanInterval time.Duration

	// Search
	SearchDebounce time.Duration
	SearchLimit    int

	// Admin auth: a shared token, Basic credentials, or both.
	AdminUser  string
	AdminPass  string
	AdminToken string

	// Rate limiting for the admin surface.
	RateLimitEnabled bool
	RateLimitPerIP   int
	RateLimitWindow  time.Duration

	// CORS. Permissive mode (the dev default) allows any origin.
	CORSPermissive bool
	CORSOrigins    []string
}

// Load reads environment variables and applies defaults. Interval variables
// accept Go duration syntax (e.g. "30s", "5m").
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.DataDir = os.Getenv("DATA_DIR")
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	var err error
	if cfg.ScanInterval, err = durationEnv("SCAN_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = durationEnv("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SearchLimit, err = intEnv("SEARCH_LIMIT", 50); err != nil {
		return nil, err
	}

	cfg.AdminUser = os.Getenv("ADMIN_USERNAME")
	cfg.AdminPass = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")

	cfg.RateLimitEnabled = os.Getenv("RATE_LIMIT_ENABLED") != "0"
	if cfg.RateLimitPerIP, err = intEnv("RATE_LIMIT_PER_IP", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	// Permissive CORS unless ENV says production; CORS_PERMISSIVE overrides.
	env := strings.ToLower(os.Getenv("ENV"))
	cfg.CORSPermissive = env == "" || env == "dev" || env == "development"
	if v := os.Getenv("CORS_PERMISSIVE"); v != "" {
		cfg.CORSPermissive = v == "1" || v == "true"
	}
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (Go duration): %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want positive integer", key, v)
	}
	return n, nil
}

// AdminAuthEnabled reports whether any admin credential is configured.
func (c *Config) AdminAuthEnabled() bool {
	return c.AdminToken != "" || (c.AdminUser != "" && c.AdminPass != "")
}

// ValidateAdminReady checks that the admin surface has some credential.
func (c *Config) ValidateAdminReady() error {
	if !c.AdminAuthEnabled() {
		return fmt.Errorf("missing admin env: set ADMIN_TOKEN or ADMIN_USERNAME+ADMIN_PASSWORD")
	}
	return nil
}
