package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gistbin/accounts/internal/config"
	"github.com/gistbin/accounts/internal/http/features/session"
	"github.com/gistbin/accounts/internal/http/features/users"
	"github.com/gistbin/accounts/internal/http/middleware"
	"github.com/gistbin/accounts/internal/httputil"
	"github.com/gistbin/accounts/pkg/auth"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Gateway         session.Gateway
	LinkingService  *auth.LinkingService
	TokenService    *auth.TokenService
	UserStore       auth.UserStore
	CookieSecure    bool
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	MaxRequestBody  int64
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBody))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	requireAuth := middleware.Auth(cfg.TokenService)

	sessionHandler := session.NewHandler(cfg.Logger, cfg.Gateway, cfg.LinkingService, cfg.TokenService, cfg.CookieSecure)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Get("/login", sessionHandler.Start)
		r.Get("/login/callback", sessionHandler.Callback)
	})
	r.With(requireAuth, rateLimiters["profile"]).Post("/logout", sessionHandler.Logout)

	usersHandler := users.NewHandler(cfg.Logger, cfg.UserStore)
	r.With(requireAuth, rateLimiters["profile"]).Get("/users/me", usersHandler.Me)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["lookup"])
		r.Get("/users/translate/{username}", usersHandler.Translate)
		r.Get("/users/{userID}", usersHandler.Read)
	})

	return r
}
