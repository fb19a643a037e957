package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
)

// credentialBytes is the entropy of a bearer credential. Hex encoding
// doubles it to a 96-character string.
const credentialBytes = 48

// CredentialLength is the length of an encoded bearer credential.
const CredentialLength = credentialBytes * 2

// TokenService issues, revokes and validates opaque bearer
// credentials. A user holds at most one active credential; issuing a
// new one unconditionally replaces the previous one.
type TokenService struct {
	store  UserStore
	logger *slog.Logger
	rand   io.Reader
}

// NewTokenService creates a new token service.
func NewTokenService(store UserStore, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		store:  store,
		logger: logger,
		rand:   rand.Reader,
	}
}

// generateCredential produces a fresh high-entropy credential. Failure
// of the random source is surfaced; there is no fallback to weaker
// randomness.
func (s *TokenService) generateCredential() (string, error) {
	buf := make([]byte, credentialBytes)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return "", fmt.Errorf("credential entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue generates a new credential and assigns it to the user,
// invalidating any prior credential. Returns domain.ErrUserNotFound
// when no user has that ID.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if _, err := s.store.GetByID(ctx, userID); err != nil {
		return "", err
	}

	credential, err := s.generateCredential()
	if err != nil {
		return "", err
	}

	if err := s.store.SetCredential(ctx, userID, credential, time.Now()); err != nil {
		return "", err
	}

	s.logger.Info("credential issued", "user_id", userID)
	return credential, nil
}

// Revoke clears the user's credential. Revoking a user that holds no
// credential still succeeds; revoking an unknown user fails with
// domain.ErrUserNotFound.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.ClearCredential(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("credential revoked", "user_id", userID)
	return nil
}

// Validate resolves a candidate credential to its user. Returns
// domain.ErrUnauthenticated when the candidate is empty or matches no
// user. The returned user carries all fields; callers must project it
// before exposing it outside the core.
func (s *TokenService) Validate(ctx context.Context, candidate string) (*domain.User, error) {
	user, err := s.FindByCredential(ctx, candidate)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByCredential looks up the unique user holding the candidate
// credential, for collaborators that need identity without the
// authentication mapping of Validate.
func (s *TokenService) FindByCredential(ctx context.Context, candidate string) (*domain.User, error) {
	// A logged-out user stores no credential, so the empty string can
	// never match anyone.
	if candidate == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.store.GetByCredential(ctx, candidate)
}
