package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
)

// MemoryStore is an in-memory user store with the same uniqueness
// semantics as the Postgres repository: unique username, unique
// (provider, provider_id) pair, and credential uniqueness over the
// subset of users whose credential is present. It backs tests and
// embedded setups that run without Postgres.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

// checkUnique enforces the uniqueness invariants against every user
// except the one identified by self.
func (s *MemoryStore) checkUnique(candidate *domain.User, self uuid.UUID) error {
	for id, existing := range s.users {
		if id == self {
			continue
		}
		if existing.Username == candidate.Username {
			return domain.ErrUsernameTaken
		}
		if existing.Provider == candidate.Provider && existing.ProviderID == candidate.ProviderID {
			return domain.ErrIdentityTaken
		}
		if existing.Credential != nil && candidate.Credential != nil &&
			*existing.Credential == *candidate.Credential {
			return domain.ErrCredentialTaken
		}
	}
	return nil
}

// Create inserts a new user, enforcing all uniqueness invariants.
func (s *MemoryStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return domain.ErrConflict
	}
	if err := s.checkUnique(user, user.ID); err != nil {
		return err
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

// GetByID retrieves a user by ID.
func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetByUsername retrieves a user by username.
func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByExternalIdentity retrieves the user linked to the identity pair.
func (s *MemoryStore) GetByExternalIdentity(ctx context.Context, identity domain.ExternalIdentity) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Provider == identity.Provider && user.ProviderID == identity.ProviderID {
			return copyUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByCredential retrieves the user whose active credential equals
// candidate. Users without a credential never match.
func (s *MemoryStore) GetByCredential(ctx context.Context, candidate string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Credential != nil && *user.Credential == candidate {
			return copyUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// UpdateProfile refreshes the mutable profile fields and provider
// token, stamping UpdatedAt. Username and identity are never touched.
func (s *MemoryStore) UpdateProfile(ctx context.Context, id uuid.UUID, snapshot domain.ProfileSnapshot) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.DisplayName = snapshot.DisplayName
	user.Email = snapshot.Email
	user.AvatarURL = snapshot.AvatarURL
	user.Description = snapshot.Description
	user.Website = snapshot.Website
	user.ProviderToken = snapshot.ProviderToken
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

// SetCredential assigns a new credential, replacing any prior one.
func (s *MemoryStore) SetCredential(ctx context.Context, id uuid.UUID, credential string, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && other.Credential != nil && *other.Credential == credential {
			return domain.ErrCredentialTaken
		}
	}
	user.Credential = &credential
	user.CredentialIssuedAt = &issuedAt
	user.UpdatedAt = issuedAt
	return nil
}

// ClearCredential removes the user's credential. Idempotent in effect
// for an existing user; fails for an unknown one.
func (s *MemoryStore) ClearCredential(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Credential = nil
	user.CredentialIssuedAt = nil
	user.UpdatedAt = time.Now()
	return nil
}

// Translate resolves a username to a user ID.
func (s *MemoryStore) Translate(ctx context.Context, username string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user.ID, nil
		}
	}
	return uuid.Nil, domain.ErrUserNotFound
}
