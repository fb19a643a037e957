package auth

import (
	"github.com/google/uuid"

	"github.com/gistbin/accounts/pkg/domain"
)

// Scope names an action a validated request may perform.
type Scope string

// UserScope is the personal scope of a user: requests carrying it act
// as that user.
func UserScope(id uuid.UUID) Scope {
	return Scope("user-" + id.String())
}

// Authorization is the capability set derived from a validated
// credential, attached to the request by the boundary layer.
type Authorization struct {
	User   *domain.User
	Scopes []Scope
}

// Authorize derives the request authorization for a validated user: a
// singleton personal scope. No role hierarchy exists beyond it.
func Authorize(user *domain.User) *Authorization {
	return &Authorization{
		User:   user,
		Scopes: []Scope{UserScope(user.ID)},
	}
}

// Allows reports whether the authorization carries the given scope.
func (a *Authorization) Allows(scope Scope) bool {
	for _, s := range a.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ActsAs reports whether the authorization permits acting as the user
// identified by id.
func (a *Authorization) ActsAs(id uuid.UUID) bool {
	return a.Allows(UserScope(id))
}
