package models

import "strings"

// Role is the closed set of user roles.
type Role string

const (
	RoleJefe     Role = "jefe"
	RoleAdmin    Role = "admin"
	RoleVendedor Role = "vendedor"
	RoleUnknown  Role = ""
)

// ParseRole maps a remote role value onto a Role.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleJefe:
		return RoleJefe
	case RoleAdmin:
		return RoleAdmin
	case RoleVendedor:
		return RoleVendedor
	}
	return RoleUnknown
}

// UserExtra holds role-specific settings.
type UserExtra struct {
	CanModifyPrices   bool   `json:"canModifyPrices,omitempty"`
	AssignedCompanyID string `json:"assignedCompanyId,omitempty"`
}

// User is the authenticated principal. It holds only comparable fields so it
// can key the authorization gate; the password is never kept.
type User struct {
	ID    ID        `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
	Extra UserExtra `json:"extra"`
}

// NormalizeExtra drops settings that do not apply to the user's role.
func (u User) NormalizeExtra() User {
	if u.Role != RoleAdmin {
		u.Extra.CanModifyPrices = false
	}
	if u.Role != RoleVendedor {
		u.Extra.AssignedCompanyID = ""
	}
	return u
}

// CanModifyPrices reports whether the user may override catalog prices on quotes.
func (u User) CanModifyPrices() bool {
	switch u.Role {
	case RoleJefe:
		return true
	case RoleAdmin:
		return u.Extra.CanModifyPrices
	}
	return false
}

// AssignedCompany returns the selling company forced on the user's quotes.
func (u User) AssignedCompany() (string, bool) {
	if u.Role == RoleVendedor && u.Extra.AssignedCompanyID != "" {
		return u.Extra.AssignedCompanyID, true
	}
	return "", false
}
