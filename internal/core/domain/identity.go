package domain

import (
	"fmt"
	"strings"
)

// Role is one of the fixed capability levels of the console.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "contador"
	RoleAssistant  Role = "asistente"
	RoleViewer     Role = "visor"
)

var knownRoles = []Role{RoleAdmin, RoleAccountant, RoleAssistant, RoleViewer}

// Roles returns the closed set of roles in privilege order.
func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	for _, k := range knownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// ParseRole normalises s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Identity is the authenticated principal as seen by the console. It never
// carries a password.
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Role   Role   `json:"role"`
}

// Validate enforces the identity invariants: an email and a known role.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidIdentity)
	}
	if !i.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, i.Role)
	}
	return nil
}

// HasRole reports whether the identity's role is one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
