// Package entities contains domain entities with identity and lifecycle.
// Entities are mutable and compared by their ID, not by their attributes.
package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// Role distinguishes an ordinary platform user from the treasury counterparty.
// There is at most one SYSTEM user with a wallet per asset type (spec §3).
type Role string

const (
	RoleUser   Role = "USER"
	RoleSystem Role = "SYSTEM"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleSystem
}

// User represents a party the movement engine reads wallets for. Read-only
// for the core — its own lifecycle (creation, profile updates) lives outside
// the transactional value-movement engine.
type User struct {
	id        uuid.UUID
	email     string
	fullName  string
	role      Role
	createdAt time.Time
	updatedAt time.Time
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewUser creates a new User with the given role.
func NewUser(email, fullName string, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, errors.ErrInvalidRole
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, errors.ErrInvalidEmail
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, errors.ValidationError{Field: "fullName", Message: "full name is required"}
	}

	now := time.Now()
	return &User{
		id:        uuid.New(),
		email:     email,
		fullName:  fullName,
		role:      role,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser reconstructs a User from stored data.
func ReconstructUser(id uuid.UUID, email, fullName string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		email:     email,
		fullName:  fullName,
		role:      role,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() string         { return u.email }
func (u *User) FullName() string      { return u.fullName }
func (u *User) Role() Role            { return u.role }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }

// IsSystem returns true if this user is the treasury counterparty.
func (u *User) IsSystem() bool {
	return u.role == RoleSystem
}
