// Package gate is a small authorization kernel: profiles hold permission
// tokens, and optional per-permission policies add resource checks on top.
// It has no dependency on domain models.
package gate

import "context"

// HybridGate combines profile permissions with resource-specific policies.
// Authorization flow:
//  1. Check if user is valid (non-zero)
//  2. Check if user's profile holds the requested permission
//  3. If a policy is registered for that permission and a resource is given, run it
type HybridGate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[Permission]Policy[U]
}

// NewHybridGate creates a hybrid gate with the given profile resolver.
func NewHybridGate[U comparable](resolver ProfileResolver[U]) *HybridGate[U] {
	return &HybridGate[U]{
		resolver: resolver,
		policies: make(map[Permission]Policy[U]),
	}
}

// Register adds a resource policy for a permission. Overwrites any existing one.
func (g *HybridGate[U]) Register(perm Permission, p Policy[U]) {
	g.policies[perm] = p
}

// Authorize returns nil when user may exercise perm on resource,
// ErrNoProfile when the user resolves to no profile and ErrUnauthorized otherwise.
func (g *HybridGate[U]) Authorize(ctx context.Context, user U, perm Permission, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}

	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return ErrUnauthorized
	}
	if profile == nil {
		return ErrNoProfile
	}
	if !profile.HasPermission(perm) {
		return ErrUnauthorized
	}

	if resource != nil {
		if policy, ok := g.policies[perm]; ok {
			if !policy.Can(ctx, user, perm, resource) {
				return ErrUnauthorized
			}
		}
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *HybridGate[U]) Can(ctx context.Context, user U, perm Permission, resource any) bool {
	return g.Authorize(ctx, user, perm, resource) == nil
}

// CanProfile checks only the profile permission, without resource policies.
func (g *HybridGate[U]) CanProfile(ctx context.Context, user U, perm Permission) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(perm)
}

// Profile returns the resolved profile for user, or nil.
func (g *HybridGate[U]) Profile(ctx context.Context, user U) Profile {
	var zero U
	if user == zero {
		return nil
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil
	}
	return profile
}
