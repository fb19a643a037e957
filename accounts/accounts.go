// Package accounts provides an embeddable account-linking and bearer
// credential service for applications that authenticate users through
// GitHub OAuth.
//
// Setup:
//
//  1. Run migrations from the migrations/ folder using your preferred
//     tool (or call repository.Migrate).
//  2. Create an instance and mount its routes.
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	acc, err := accounts.New(accounts.Config{
//	    DB: db,
//	    GitHub: accounts.GitHubConfig{
//	        ClientID:     "your-client-id",
//	        ClientSecret: "your-client-secret",
//	        RedirectURI:  "http://localhost:8080/login/callback",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/", acc.Router())
//	http.ListenAndServe(":8080", r)
//
// Leaving DB nil runs the service on an in-memory store, which is
// convenient for prototypes and tests but keeps no state across
// restarts.
package accounts

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gistbin/accounts/internal/config"
	httpserver "github.com/gistbin/accounts/internal/http"
	"github.com/gistbin/accounts/pkg/auth"
	"github.com/gistbin/accounts/pkg/repository"
)

// GitHubConfig holds the GitHub OAuth application settings.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Config holds the configuration for an embedded instance.
type Config struct {
	// DB is the Postgres connection. Nil selects the in-memory store.
	DB *sql.DB

	// GitHub configures the OAuth gateway (required).
	GitHub GitHubConfig

	// Logger is the structured logger (default: slog.Default()).
	Logger *slog.Logger

	// CookieSecure marks the OAuth state cookie Secure; enable behind
	// HTTPS.
	CookieSecure bool
}

// Accounts bundles the core services and their HTTP surface.
type Accounts struct {
	Store   auth.UserStore
	Tokens  *auth.TokenService
	Linking *auth.LinkingService
	GitHub  *auth.GitHubService

	router http.Handler
}

// New creates an embedded accounts instance.
func New(cfg Config) (*Accounts, error) {
	if cfg.GitHub.ClientID == "" || cfg.GitHub.ClientSecret == "" {
		return nil, errors.New("accounts: GitHub client ID and secret are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var store auth.UserStore
	if cfg.DB != nil {
		store = repository.NewUsersRepository(cfg.DB)
	} else {
		store = repository.NewMemoryStore()
	}

	tokens := auth.NewTokenService(store, logger)
	linking := auth.NewLinkingService(store, tokens, logger)
	github := auth.NewGitHubService(auth.GitHubConfig{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		RedirectURI:  cfg.GitHub.RedirectURI,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Gateway:         github,
		LinkingService:  linking,
		TokenService:    tokens,
		UserStore:       store,
		CookieSecure:    cfg.CookieSecure,
		RateLimitConfig: config.RateLimitConfig{Enabled: false},
		SecurityHeaders: config.SecurityHeadersConfig{Enabled: false},
	})

	return &Accounts{
		Store:   store,
		Tokens:  tokens,
		Linking: linking,
		GitHub:  github,
		router:  router,
	}, nil
}

// Router returns the HTTP handler exposing login, logout and the user
// profile routes.
func (a *Accounts) Router() http.Handler {
	return a.router
}
