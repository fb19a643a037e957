package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gistbin/accounts/pkg/domain"
)

const userColumns = `id, provider, provider_id, username, display_name, email,
       avatar_url, description, website, provider_token,
       credential, credential_issued_at, created_at, updated_at`

// UsersRepository is the Postgres-backed user store. The schema's
// unique constraints are the source of truth for the uniqueness
// invariants; application-level existence checks are advisory only.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Provider, &user.ProviderID, &user.Username,
		&user.DisplayName, &user.Email, &user.AvatarURL, &user.Description,
		&user.Website, &user.ProviderToken,
		&user.Credential, &user.CredentialIssuedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// mapConflict translates Postgres unique violations into domain
// conflict sentinels, keyed by constraint name.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return domain.ErrUsernameTaken
	case "users_provider_identity_key":
		return domain.ErrIdentityTaken
	case "users_credential_key":
		return domain.ErrCredentialTaken
	default:
		return domain.ErrConflict
	}
}

// Create inserts a new user. Returns a conflict sentinel when the
// username, the identity pair, or the credential collides.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Provider, user.ProviderID, user.Username,
		user.DisplayName, user.Email, user.AvatarURL, user.Description,
		user.Website, user.ProviderToken,
		user.Credential, user.CredentialIssuedAt,
		user.CreatedAt, user.UpdatedAt,
	)
	return mapConflict(err)
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username.
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// GetByExternalIdentity retrieves the user linked to the given
// (provider, providerId) pair.
func (r *UsersRepository) GetByExternalIdentity(ctx context.Context, identity domain.ExternalIdentity) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, identity.Provider, identity.ProviderID))
}

// GetByCredential retrieves the unique user whose active credential
// equals candidate. Logged-out users hold NULL and never match.
func (r *UsersRepository) GetByCredential(ctx context.Context, candidate string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE credential = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, candidate))
}

// UpdateProfile refreshes the mutable provider-sourced fields and the
// provider token, stamping updated_at. Username and the identity pair
// are never touched.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id uuid.UUID, snapshot domain.ProfileSnapshot) (*domain.User, error) {
	query := `
		UPDATE users
		SET display_name = $2, email = $3, avatar_url = $4,
		    description = $5, website = $6, provider_token = $7,
		    updated_at = $8
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		id, snapshot.DisplayName, snapshot.Email, snapshot.AvatarURL,
		snapshot.Description, snapshot.Website, snapshot.ProviderToken,
		time.Now(),
	))
	if err != nil {
		return nil, mapConflict(err)
	}
	return user, nil
}

// SetCredential assigns a new bearer credential, unconditionally
// replacing any prior one.
func (r *UsersRepository) SetCredential(ctx context.Context, id uuid.UUID, credential string, issuedAt time.Time) error {
	query := `
		UPDATE users
		SET credential = $2, credential_issued_at = $3, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, credential, issuedAt)
	if err != nil {
		return mapConflict(err)
	}
	return requireRow(result)
}

// ClearCredential removes the user's credential and its issuance
// timestamp. Clearing an already-cleared credential still succeeds as
// long as the user exists.
func (r *UsersRepository) ClearCredential(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET credential = NULL, credential_issued_at = NULL, updated_at = $2
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Translate resolves a username to a user ID.
func (r *UsersRepository) Translate(ctx context.Context, username string) (uuid.UUID, error) {
	query := `SELECT id FROM users WHERE username = $1`
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, domain.ErrUserNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
