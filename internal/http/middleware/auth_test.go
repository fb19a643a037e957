package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/auth"
	"github.com/gistbin/accounts/pkg/domain"
	"github.com/gistbin/accounts/pkg/repository"
)

func newAuthFixture(t *testing.T) (*auth.TokenService, *domain.User, string) {
	t.Helper()

	store := repository.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService(store, logger)

	now := time.Now()
	user := &domain.User{
		ID:         uuid.New(),
		Provider:   "github",
		ProviderID: "42",
		Username:   "alice",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	credential, err := tokens.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue credential: %v", err)
	}
	return tokens, user, credential
}

func TestAuth(t *testing.T) {
	tokens, user, credential := newAuthFixture(t)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown credential", header: "Bearer deadbeef", wantStatus: http.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer " + credential, wantStatus: http.StatusOK},
		{name: "bare credential", header: credential, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuthz *auth.Authorization
			handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuthz, _ = GetAuthorization(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if gotAuthz == nil {
				t.Fatal("authorization missing from context")
			}
			if gotAuthz.User.ID != user.ID {
				t.Errorf("authorization user = %s, want %s", gotAuthz.User.ID, user.ID)
			}
			if !gotAuthz.ActsAs(user.ID) {
				t.Error("authorization does not act as the credential's user")
			}
		})
	}
}

func TestAuth_RevokedCredentialRejected(t *testing.T) {
	tokens, user, credential := newAuthFixture(t)

	if err := tokens.Revoke(context.Background(), user.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a revoked credential")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
