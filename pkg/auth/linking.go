package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
)

// LinkingService resolves an external identity into a local user
// (create-or-update) and mints a fresh bearer credential for it. It
// runs after the OAuth gateway has completed its handshake.
type LinkingService struct {
	store  UserStore
	tokens *TokenService
	logger *slog.Logger
}

// NewLinkingService creates a new account linking service.
func NewLinkingService(store UserStore, tokens *TokenService, logger *slog.Logger) *LinkingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkingService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// LoginResult is the outcome of a successful resolution: the linked
// user and the credential minted for this login.
type LoginResult struct {
	User       *domain.User
	Credential string
}

// Resolve finds or creates the user linked to identity, refreshes its
// mutable profile fields from snapshot, and issues a new credential.
//
// Repeated calls with the same identity never create a second user,
// but every call rotates the credential. A username owned by a
// different identity fails with domain.ErrUsernameTaken and mutates
// nothing.
func (s *LinkingService) Resolve(ctx context.Context, identity domain.ExternalIdentity, snapshot domain.ProfileSnapshot) (*LoginResult, error) {
	user, err := s.store.GetByExternalIdentity(ctx, identity)
	switch {
	case err == nil:
		user, err = s.store.UpdateProfile(ctx, user.ID, snapshot)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.create(ctx, identity, snapshot)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	credential, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("identity resolved",
		"user_id", user.ID,
		"provider", identity.Provider,
		"username", user.Username,
	)
	return &LoginResult{User: user, Credential: credential}, nil
}

// create persists a candidate user for a brand-new identity. The
// store's uniqueness constraints are the real guard here: when two
// resolutions race on the same identity, the loser's insert conflicts
// and is retried as a lookup exactly once. A conflict that is not the
// race (the username is claimed by another identity) is terminal.
func (s *LinkingService) create(ctx context.Context, identity domain.ExternalIdentity, snapshot domain.ProfileSnapshot) (*domain.User, error) {
	now := time.Now()
	candidate := &domain.User{
		ID:            uuid.New(),
		Provider:      identity.Provider,
		ProviderID:    identity.ProviderID,
		Username:      snapshot.Username,
		DisplayName:   snapshot.DisplayName,
		Email:         snapshot.Email,
		AvatarURL:     snapshot.AvatarURL,
		Description:   snapshot.Description,
		Website:       snapshot.Website,
		ProviderToken: snapshot.ProviderToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.Create(ctx, candidate)
	if err == nil {
		s.logger.Info("user created",
			"user_id", candidate.ID,
			"provider", identity.Provider,
			"username", candidate.Username,
		)
		return candidate, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	// Lost an identity-creation race, or the username is genuinely
	// taken. Re-check the identity once before surfacing the conflict.
	existing, lookupErr := s.store.GetByExternalIdentity(ctx, identity)
	if lookupErr != nil {
		if errors.Is(lookupErr, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, lookupErr
	}
	return s.store.UpdateProfile(ctx, existing.ID, snapshot)
}
