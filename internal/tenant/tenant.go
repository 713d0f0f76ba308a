package tenant

import (
	"errors"
	"fmt"
)

// Role is the permission level of a logged-in user within a mandap.
type Role string

const (
	Admin Role = "admin"
	Staff Role = "staff"
)

// ErrNoTenant is returned when an operation needs a logged-in mandap.
var ErrNoTenant = errors.New("no mandap selected: log in first")

// Context identifies the mandap, user and role an operation runs for.
// It is immutable once built and is passed explicitly to every component
// that scopes reads or writes to a mandap.
type Context struct {
	mandapID    string
	displayName string
	username    string
	role        Role
}

// New builds a tenant context. The mandap id is mandatory.
func New(mandapID, displayName, username string, role Role) (Context, error) {
	if mandapID == "" {
		return Context{}, ErrNoTenant
	}
	switch role {
	case Admin, Staff:
	case "":
		role = Staff
	default:
		return Context{}, fmt.Errorf("unknown role %q", role)
	}
	return Context{
		mandapID:    mandapID,
		displayName: displayName,
		username:    username,
		role:        role,
	}, nil
}

// MandapID returns the owning-group identifier every query is scoped to.
func (c Context) MandapID() string { return c.mandapID }

// DisplayName returns the mandap's human readable name.
func (c Context) DisplayName() string { return c.displayName }

// Username returns the logged-in user's name.
func (c Context) Username() string { return c.username }

// Role returns the logged-in user's role.
func (c Context) Role() Role { return c.role }

// IsAdmin reports whether the user may manage staff, events and expenses.
func (c Context) IsAdmin() bool { return c.role == Admin }

// Valid reports whether the context carries a mandap.
func (c Context) Valid() bool { return c.mandapID != "" }
