package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
)

// UserStore is the persistence boundary the services depend on. The
// store owns the uniqueness invariants: duplicate usernames, identity
// pairs, and credentials must be refused by the store itself, not by
// the services' advisory lookups. Both repository.UsersRepository and
// repository.MemoryStore satisfy it.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByExternalIdentity(ctx context.Context, identity domain.ExternalIdentity) (*domain.User, error)
	GetByCredential(ctx context.Context, candidate string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, snapshot domain.ProfileSnapshot) (*domain.User, error)
	SetCredential(ctx context.Context, id uuid.UUID, credential string, issuedAt time.Time) error
	ClearCredential(ctx context.Context, id uuid.UUID) error
	Translate(ctx context.Context, username string) (uuid.UUID, error)
}
