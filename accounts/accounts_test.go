package accounts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_RequiresGitHubCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New succeeded without GitHub credentials")
	}
}

func TestNew_InMemory(t *testing.T) {
	acc, err := New(Config{
		GitHub: GitHubConfig{ClientID: "id", ClientSecret: "secret"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec := httptest.NewRecorder()
	acc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestNew_LoginRedirectsToGitHub(t *testing.T) {
	acc, err := New(Config{
		GitHub: GitHubConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:8080/login/callback",
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec := httptest.NewRecorder()
	acc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("GET /login status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc == "" {
		t.Error("GET /login did not set a Location header")
	}
}
