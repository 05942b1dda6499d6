package gate

// Permission is a capability token checked before a protected view or action,
// e.g. "view_home" or "create_quote".
type Permission string

// PermissionAll is the wildcard token: a profile holding it passes every check.
const PermissionAll Permission = "*"

// Matches checks if this permission grants the requested one.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll {
		return true
	}
	return p != "" && p == requested
}

// String implements fmt.Stringer.
func (p Permission) String() string { return string(p) }
