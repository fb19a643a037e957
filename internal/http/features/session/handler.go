package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gistbin/accounts/internal/http/middleware"
	"github.com/gistbin/accounts/internal/httputil"
	"github.com/gistbin/accounts/pkg/auth"
	"github.com/gistbin/accounts/pkg/domain"
)

// Gateway is the external OAuth handshake this handler drives. The
// core only consumes its output: a resolved identity assertion plus
// the provider-sourced profile snapshot.
type Gateway interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (domain.ExternalIdentity, domain.ProfileSnapshot, error)
}

// Handler handles login and logout.
type Handler struct {
	logger       *slog.Logger
	gateway      Gateway
	linking      *auth.LinkingService
	tokens       *auth.TokenService
	cookieSecure bool
}

// NewHandler creates a new session handler.
func NewHandler(logger *slog.Logger, gateway Gateway, linking *auth.LinkingService, tokens *auth.TokenService, cookieSecure bool) *Handler {
	return &Handler{
		logger:       logger,
		gateway:      gateway,
		linking:      linking,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}
}

// CredentialResponse is the login response body.
type CredentialResponse struct {
	Credential string `json:"credential"`
}

// Start begins the OAuth flow: stores a CSRF state cookie and
// redirects to the provider.
// GET /login
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	state := generateState()
	httputil.SetStateCookie(w, state, h.cookieSecure)
	http.Redirect(w, r, h.gateway.AuthURL(state), http.StatusFound)
}

// Callback completes the OAuth flow: verifies the CSRF state, trades
// the code for an identity assertion, resolves it to a local user and
// returns the freshly issued credential.
// GET /login/callback
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth flow denied by provider", "error", errParam)
		httputil.Error(w, http.StatusUnauthorized, "authorization denied")
		return
	}

	state := r.URL.Query().Get("state")
	expected, ok := httputil.GetStateCookie(r)
	httputil.ClearStateCookie(w, h.cookieSecure)
	if !ok || state == "" || state != expected {
		httputil.Error(w, http.StatusUnauthorized, "invalid oauth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	identity, snapshot, err := h.gateway.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange failed", "error", err)
		httputil.Error(w, http.StatusBadGateway, "provider exchange failed")
		return
	}

	result, err := h.linking.Resolve(r.Context(), identity, snapshot)
	if err != nil {
		h.logger.Error("identity resolution failed",
			"error", err,
			"provider", identity.Provider,
		)
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, CredentialResponse{Credential: result.Credential})
}

// Logout revokes the authenticated user's credential.
// POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	authz, ok := middleware.GetAuthorization(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.tokens.Revoke(r.Context(), authz.User.ID); err != nil {
		httputil.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func generateState() string {
	buf := make([]byte, 24)
	rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
