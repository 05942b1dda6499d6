package gate

import "context"

// Policy defines resource-level rules layered on top of a profile permission.
// U is the user/subject type.
type Policy[U any] interface {
	// Can returns true if user may exercise perm on resource.
	// resource may be nil when there is nothing specific to check yet.
	Can(ctx context.Context, user U, perm Permission, resource any) bool
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc[U any] func(ctx context.Context, user U, perm Permission, resource any) bool

// Can calls f.
func (f PolicyFunc[U]) Can(ctx context.Context, user U, perm Permission, resource any) bool {
	return f(ctx, user, perm, resource)
}
