package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/gistbin/accounts/internal/config"
	"github.com/gistbin/accounts/internal/httputil"
)

// RateLimit creates an IP-based rate limiter with logging.
func RateLimit(requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if logger != nil {
				logger.Warn("rate limit exceeded",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
			}
			httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded. please try again later")
		}),
	)
}

// NoRateLimit returns a no-op middleware when rate limiting is disabled.
func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// CreateRateLimiters creates the per-endpoint-class limiters: "auth"
// for the OAuth login flow, "profile" for authenticated operations,
// "lookup" for the public reads.
func CreateRateLimiters(cfg config.RateLimitConfig, logger *slog.Logger) map[string]func(http.Handler) http.Handler {
	if !cfg.Enabled {
		noOp := NoRateLimit()
		return map[string]func(http.Handler) http.Handler{
			"auth":    noOp,
			"profile": noOp,
			"lookup":  noOp,
		}
	}

	return map[string]func(http.Handler) http.Handler{
		"auth":    RateLimit(cfg.AuthRequestsPerWindow, cfg.AuthWindow, logger),
		"profile": RateLimit(cfg.ProfileRequestsPerWindow, cfg.ProfileWindow, logger),
		"lookup":  RateLimit(cfg.LookupRequestsPerWindow, cfg.LookupWindow, logger),
	}
}
