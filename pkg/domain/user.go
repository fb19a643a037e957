package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the sole persisted entity: a local account linked to exactly
// one external identity, optionally holding an active bearer credential.
type User struct {
	ID uuid.UUID

	// External identity pair, immutable after creation. At most one
	// user per (provider, provider_id).
	Provider   string
	ProviderID string

	// Username is unique across all users and never mutated by
	// identity re-linking.
	Username string

	// Provider-sourced profile fields, refreshed on every login.
	DisplayName *string
	Email       *string
	AvatarURL   *string
	Description *string
	Website     *string

	// ProviderToken is the opaque credential issued by the external
	// provider, kept for future provider API calls. Sensitive.
	ProviderToken *string

	// Credential is the active bearer credential, nil when logged out.
	// Unique among non-nil values; cleared together with
	// CredentialIssuedAt.
	Credential         *string
	CredentialIssuedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternalIdentity is the (provider, providerId) pair asserted by the
// OAuth gateway.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
}

// ProfileSnapshot carries the provider-sourced profile captured during
// an OAuth handshake. Username is only consulted when a new user is
// created; updates never touch it.
type ProfileSnapshot struct {
	Username      string
	DisplayName   *string
	Email         *string
	AvatarURL     *string
	Description   *string
	Website       *string
	ProviderToken *string
}

// PublicProfile is the subset of user fields safe to return to any
// caller. Email, the identity pair, the provider token and the
// credential are excluded.
type PublicProfile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	Website     *string   `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the public projection of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Description: u.Description,
		Website:     u.Website,
		CreatedAt:   u.CreatedAt,
	}
}

// HasCredential reports whether the user currently holds an active
// bearer credential.
func (u *User) HasCredential() bool {
	return u.Credential != nil
}

// Identity returns the user's external identity pair.
func (u *User) Identity() ExternalIdentity {
	return ExternalIdentity{Provider: u.Provider, ProviderID: u.ProviderID}
}
