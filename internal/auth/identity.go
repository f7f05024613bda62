// Package auth holds the request-scoped identity resolved from a bearer token
// and the ownership rule protected operations check against it.
package auth

import (
	"context"

	"yoga-api/internal/models"
)

const (
	AuthorityUser  = "USER"
	AuthorityAdmin = "ADMIN"
)

// Identity is the user acting on a single request. It is built fresh for
// every request and must not outlive it.
type Identity struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	Admin       bool
	Authorities []string
}

// NewIdentity derives an Identity from a stored user record.
func NewIdentity(u *models.User) *Identity {
	return &Identity{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Admin:       u.Admin,
		Authorities: Authorities(u.Admin),
	}
}

// Authorities returns USER, plus ADMIN for privileged accounts.
func Authorities(admin bool) []string {
	if admin {
		return []string{AuthorityUser, AuthorityAdmin}
	}
	return []string{AuthorityUser}
}

// HasAuthority reports whether the identity was granted authority.
func (i *Identity) HasAuthority(authority string) bool {
	if i == nil {
		return false
	}
	for _, a := range i.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying identity.
func NewContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the identity attached to ctx, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*Identity)
	return identity, ok && identity != nil
}

// CanActOn is the self-ownership rule: only the owner of a resource may act
// on it. An absent identity is never allowed.
func CanActOn(identity *Identity, ownerID int64) bool {
	return identity != nil && identity.ID == ownerID
}
