package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gistbin/accounts/internal/config"
)

func TestSecurityHeaders(t *testing.T) {
	cfg := config.SecurityHeadersConfig{
		Enabled:            true,
		HSTSMaxAge:         31536000,
		FrameOptions:       "DENY",
		ContentTypeOptions: "nosniff",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS header = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != cfg.FrameOptions {
		t.Errorf("X-Frame-Options = %q, want %q", got, cfg.FrameOptions)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != cfg.ContentTypeOptions {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, cfg.ContentTypeOptions)
	}
	if got := rec.Header().Get("Referrer-Policy"); got != cfg.ReferrerPolicy {
		t.Errorf("Referrer-Policy = %q, want %q", got, cfg.ReferrerPolicy)
	}
}

func TestSecurityHeaders_Disabled(t *testing.T) {
	handler := SecurityHeaders(config.SecurityHeadersConfig{Enabled: false})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("disabled middleware set X-Frame-Options = %q", got)
	}
}
