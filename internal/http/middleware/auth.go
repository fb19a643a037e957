package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gistbin/accounts/internal/httputil"
	"github.com/gistbin/accounts/pkg/auth"
)

type contextKey string

// AuthorizationKey is the context key for the request authorization.
const AuthorizationKey contextKey = "authorization"

// Auth validates the bearer credential in the Authorization header and
// attaches the derived authorization (user + scopes) to the request
// context. Requests without a resolvable credential are rejected with
// 401.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerCredential(r)
			if credential == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			user, err := tokens.Validate(r.Context(), credential)
			if err != nil {
				httputil.DomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), AuthorizationKey, auth.Authorize(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerCredential extracts the opaque credential from the
// Authorization header. Both "Bearer <credential>" and a bare
// credential are accepted.
func bearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}

// GetAuthorization extracts the request authorization from the context.
func GetAuthorization(ctx context.Context) (*auth.Authorization, bool) {
	authz, ok := ctx.Value(AuthorizationKey).(*auth.Authorization)
	return authz, ok
}
