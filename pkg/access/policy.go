// Package access decides what rows an authenticated caller may see.
package access

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is an authenticated caller as seen by services and repositories.
type Identity struct {
	UserID     uuid.UUID
	Email      string
	Privileged bool
}

// Scoped reports whether queries for this identity must be restricted to owned rows.
func (i Identity) Scoped() bool {
	return !i.Privileged
}

// Policy holds the admin allow-list.
type Policy struct {
	admins map[string]struct{}
}

// NewPolicy builds a Policy from a list of admin email addresses.
func NewPolicy(adminEmails []string) *Policy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = normalize(e)
		if e == "" {
			continue
		}
		admins[e] = struct{}{}
	}
	return &Policy{admins: admins}
}

// IsPrivileged reports whether email is on the admin allow-list.
func (p *Policy) IsPrivileged(email string) bool {
	if p == nil {
		return false
	}
	_, ok := p.admins[normalize(email)]
	return ok
}

// Identify builds the Identity for a user.
func (p *Policy) Identify(userID uuid.UUID, email string) Identity {
	return Identity{
		UserID:     userID,
		Email:      email,
		Privileged: p.IsPrivileged(email),
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Unrestricted sees every row. Used for internal reads not made on behalf of a caller.
var Unrestricted = Identity{Privileged: true}
