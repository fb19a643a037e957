package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gistbin/accounts/internal/http/middleware"
	"github.com/gistbin/accounts/internal/httputil"
	"github.com/gistbin/accounts/pkg/auth"
)

// Handler handles user profile endpoints. All responses use the public
// projection; credentials, provider tokens, identity pairs and email
// never leave the core.
type Handler struct {
	logger *slog.Logger
	store  auth.UserStore
}

// NewHandler creates a new users handler.
func NewHandler(logger *slog.Logger, store auth.UserStore) *Handler {
	return &Handler{logger: logger, store: store}
}

// TranslateResponse is the username → id response body.
type TranslateResponse struct {
	ID string `json:"id"`
}

// Me returns the public projection of the authenticated user.
// GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	authz, ok := middleware.GetAuthorization(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	httputil.JSON(w, http.StatusOK, authz.User.Public())
}

// Translate resolves a username to a user ID.
// GET /users/translate/{username}
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	id, err := h.store.Translate(r.Context(), username)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, TranslateResponse{ID: id.String()})
}

// Read returns the public projection for a known user ID.
// GET /users/{userID}
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user.Public())
}
