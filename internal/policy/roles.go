package policy

import (
	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/internal/models"
)

// Permission tokens checked by routes and handlers.
const (
	ViewHome       gate.Permission = "view_home"
	ViewQuotes     gate.Permission = "view_quotes"
	CreateQuote    gate.Permission = "create_quote"
	EditQuote      gate.Permission = "edit_quote"
	DeleteQuote    gate.Permission = "delete_quote"
	ViewClients    gate.Permission = "view_clients"
	ManageClients  gate.Permission = "manage_clients"
	ImportClients  gate.Permission = "import_clients"
	ViewProducts   gate.Permission = "view_products"
	ManageProducts gate.Permission = "manage_products"
	ImportProducts gate.Permission = "import_products"
	ViewUsers      gate.Permission = "view_users"
	ManageUsers    gate.Permission = "manage_users"
)

// rolePermissions is the static role table. It is never mutated after init.
var rolePermissions = map[models.Role][]gate.Permission{
	models.RoleJefe: {gate.PermissionAll},
	models.RoleAdmin: {
		ViewHome, ViewQuotes, CreateQuote, EditQuote, DeleteQuote,
		ViewClients, ManageClients, ImportClients,
		ViewProducts, ManageProducts, ImportProducts,
		ViewUsers,
	},
	models.RoleVendedor: {ViewQuotes, CreateQuote, EditQuote, ViewClients, ViewProducts},
}

var roleProfiles = buildProfiles()

func buildProfiles() map[models.Role]*gate.StaticProfile {
	out := make(map[models.Role]*gate.StaticProfile, len(rolePermissions))
	for role, perms := range rolePermissions {
		out[role] = gate.NewStaticProfile(string(role), perms...)
	}
	return out
}

// ProfileFor returns the static profile of a role, or nil for unknown roles.
func ProfileFor(role models.Role) gate.Profile {
	p, ok := roleProfiles[role]
	if !ok {
		return nil
	}
	return p
}

// HasPermission reports whether user holds token, directly or through the wildcard.
// A nil user holds nothing.
func HasPermission(user *models.User, token gate.Permission) bool {
	if user == nil {
		return false
	}
	p := ProfileFor(user.Role)
	return p != nil && p.HasPermission(token)
}

// Permissions lists the tokens granted to user, used by the session endpoint so
// the frontend can hide actions up front.
func Permissions(user *models.User) []gate.Permission {
	if user == nil {
		return nil
	}
	p := ProfileFor(user.Role)
	if p == nil {
		return nil
	}
	return p.Permissions()
}
