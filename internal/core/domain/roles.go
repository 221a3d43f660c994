package domain

import "strings"

// Role represents a staff role in the system
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleCashier    Role = "CASHIER"
	RoleSales      Role = "SALES"
)

// ParseRole converts a token claim into a Role
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleSuperAdmin, RoleAdmin, RoleCashier, RoleSales:
		return r, nil
	}
	return "", NewValidationError("role", "unknown role "+raw)
}

// IsAdmin reports whether the role carries administrative privileges
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Actor identifies who performs an operation.
// A trusted actor skips the role policy; it can only be built with TrustedInternal.
type Actor struct {
	ID      uint
	Role    Role
	trusted bool
}

// NewActor builds an actor subject to the role policy
func NewActor(id uint, role Role) Actor {
	return Actor{ID: id, Role: role}
}

// TrustedInternal builds an actor for in-process callers (schedulers, maintenance jobs)
func TrustedInternal(id uint) Actor {
	return Actor{ID: id, trusted: true}
}

// IsTrusted reports whether the actor bypasses the role policy
func (a Actor) IsTrusted() bool {
	return a.trusted
}

// CanAdminister reports whether the actor may run administrative operations
func (a Actor) CanAdminister() bool {
	return a.trusted || a.Role.IsAdmin()
}

func (a Actor) roleLabel() Role {
	if a.trusted {
		return "TRUSTED_INTERNAL"
	}
	if a.Role == "" {
		return "NONE"
	}
	return a.Role
}

// ForbiddenAction builds a ForbiddenError for a non-transition action
func (a Actor) ForbiddenAction(action string) *ForbiddenError {
	return &ForbiddenError{Role: a.roleLabel(), Action: action}
}
