package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gistbin/accounts/pkg/domain"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// DomainError maps a core error onto its transport status: not-found
// → 404, conflicts → 409, unauthenticated → 401. Everything else —
// store failures, timeouts, exhausted randomness — is internal and is
// never reported as a 404.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "invalid or missing credential")
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
