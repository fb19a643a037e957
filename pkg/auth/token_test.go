package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
	"github.com/gistbin/accounts/pkg/repository"
)

var hexCredential = regexp.MustCompile(`^[0-9a-f]{96}$`)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, store UserStore, username string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:         uuid.New(),
		Provider:   "github",
		ProviderID: "gh-" + username,
		Username:   username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func TestIssue_CredentialFormat(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")

	credential, err := svc.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if len(credential) != CredentialLength {
		t.Errorf("credential length = %d, want %d", len(credential), CredentialLength)
	}
	if !hexCredential.MatchString(credential) {
		t.Errorf("credential %q is not 96 lowercase hex characters", credential)
	}
}

func TestIssue_CredentialsNeverRepeat(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")

	seen := make(map[string]bool)
	for i := 0; i < 128; i++ {
		credential, err := svc.Issue(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("Issue #%d failed: %v", i, err)
		}
		if seen[credential] {
			t.Fatalf("Issue #%d repeated credential %q", i, credential)
		}
		seen[credential] = true
	}
}

func TestIssue_UnknownUser(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())

	_, err := svc.Issue(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Issue(unknown) = %v, want ErrUserNotFound", err)
	}
}

func TestIssue_ReplacesPriorCredential(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")
	ctx := context.Background()

	first, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}
	second, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}
	if first == second {
		t.Fatal("second issuance returned the same credential")
	}

	// Only the newest credential resolves.
	if _, err := svc.Validate(ctx, first); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("Validate(replaced credential) = %v, want ErrUnauthenticated", err)
	}
	got, err := svc.Validate(ctx, second)
	if err != nil {
		t.Fatalf("Validate(current credential) failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Validate returned user %s, want %s", got.ID, user.ID)
	}
}

func TestIssue_EntropyFailureIsSurfaced(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	svc.rand = failingReader{}
	user := seedUser(t, store, "alice")

	_, err := svc.Issue(context.Background(), user.ID)
	if err == nil {
		t.Fatal("Issue succeeded with a broken random source")
	}
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("entropy failure misreported as %v", err)
	}

	// No partial state: the user still has no credential.
	stored, _ := store.GetByID(context.Background(), user.ID)
	if stored.HasCredential() {
		t.Error("credential assigned despite entropy failure")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy pool unavailable")
}

func TestRevoke(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")
	ctx := context.Background()

	credential, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := svc.Revoke(ctx, user.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := svc.Validate(ctx, credential); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("Validate(revoked credential) = %v, want ErrUnauthenticated", err)
	}

	// Revoking a user that holds no credential still succeeds.
	if err := svc.Revoke(ctx, user.ID); err != nil {
		t.Errorf("second Revoke = %v, want nil", err)
	}

	// Revoking a nonexistent user does not.
	if err := svc.Revoke(ctx, uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Revoke(unknown) = %v, want ErrUserNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")
	ctx := context.Background()

	credential, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name      string
		candidate string
		wantErr   error
	}{
		{name: "valid credential", candidate: credential, wantErr: nil},
		{name: "empty credential", candidate: "", wantErr: domain.ErrUnauthenticated},
		{name: "unknown credential", candidate: "deadbeef", wantErr: domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Validate(ctx, tt.candidate)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if got.ID != user.ID {
				t.Errorf("Validate returned user %s, want %s", got.ID, user.ID)
			}
		})
	}
}

func TestFindByCredential(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewTokenService(store, testLogger())
	user := seedUser(t, store, "alice")
	ctx := context.Background()

	credential, err := svc.Issue(ctx, user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := svc.FindByCredential(ctx, credential)
	if err != nil {
		t.Fatalf("FindByCredential failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("FindByCredential returned user %s, want %s", got.ID, user.ID)
	}

	// Unlike Validate, the lookup reports a plain not-found.
	if _, err := svc.FindByCredential(ctx, "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("FindByCredential(unknown) = %v, want ErrUserNotFound", err)
	}
}
