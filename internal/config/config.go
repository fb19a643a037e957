package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Migrations
	AutoMigrate   bool
	MigrationsURL string

	// GitHub OAuth gateway
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURI  string

	// Cookies (set secure in production, behind HTTPS)
	CookieSecure bool

	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig

	// MaxRequestBodySize caps inbound request bodies, in bytes.
	MaxRequestBodySize int64
}

// RateLimitConfig holds per-endpoint-class rate limit settings.
type RateLimitConfig struct {
	Enabled bool

	// Login start/callback, per IP.
	AuthRequestsPerWindow int
	AuthWindow            time.Duration

	// Authenticated profile reads and logout, per IP.
	ProfileRequestsPerWindow int
	ProfileWindow            time.Duration

	// Public lookups (translate, read by id), per IP.
	LookupRequestsPerWindow int
	LookupWindow            time.Duration
}

// SecurityHeadersConfig holds the response security headers.
type SecurityHeadersConfig struct {
	Enabled            bool
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	ReferrerPolicy     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "accounts"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AutoMigrate:   getEnvBool("AUTO_MIGRATE", true),
		MigrationsURL: getEnv("MIGRATIONS_URL", "file://migrations"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURI:  getEnv("GITHUB_REDIRECT_URI", ""),

		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		RateLimit: RateLimitConfig{
			Enabled:                  getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequestsPerWindow:    getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindow:               getEnvDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			ProfileRequestsPerWindow: getEnvInt("RATE_LIMIT_PROFILE_REQUESTS", 60),
			ProfileWindow:            getEnvDuration("RATE_LIMIT_PROFILE_WINDOW", time.Minute),
			LookupRequestsPerWindow:  getEnvInt("RATE_LIMIT_LOOKUP_REQUESTS", 120),
			LookupWindow:             getEnvDuration("RATE_LIMIT_LOOKUP_WINDOW", time.Minute),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 0),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "strict-origin-when-cross-origin"),
		},

		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 64*1024)),
	}

	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		return nil, fmt.Errorf("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
