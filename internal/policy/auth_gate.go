// Package policy binds the generic gate to the application's roles and
// exposes the permission middleware used by the router.
package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/internal/models"
)

// ForbiddenMessage is the plain-text body of a denied request.
const ForbiddenMessage = "No autorizado"

// QuotesPath is where a seller lands instead of the dashboard.
const QuotesPath = "/quotes"

// CompanyScoped is implemented by resources tied to a selling company.
type CompanyScoped interface {
	SellingCompany() string
}

// AuthGate holds the configured HybridGate.
// Use this as the central authorization point of the application.
type AuthGate struct {
	Gate *gate.HybridGate[models.User]
}

// NewAuthGate creates a gate resolving users through the static role table,
// with the company policy registered on quote creation.
func NewAuthGate() *AuthGate {
	resolver := gate.ResolverFunc[models.User](func(_ context.Context, u models.User) (gate.Profile, error) {
		return ProfileFor(u.Role), nil
	})
	ag := &AuthGate{Gate: gate.NewHybridGate[models.User](resolver)}
	ag.RegisterPolicy(CreateQuote, gate.PolicyFunc[models.User](AssignedCompanyPolicy))
	ag.RegisterPolicy(EditQuote, gate.PolicyFunc[models.User](AssignedCompanyPolicy))
	return ag
}

// AssignedCompanyPolicy restricts a seller with an assigned company to
// resources of that company. Anyone else, or resources without a company,
// pass.
func AssignedCompanyPolicy(_ context.Context, u models.User, _ gate.Permission, resource any) bool {
	company, ok := u.AssignedCompany()
	if !ok {
		return true
	}
	scoped, ok := resource.(CompanyScoped)
	if !ok {
		return true
	}
	got := scoped.SellingCompany()
	return got == "" || got == company
}

// RegisterPolicy adds a resource policy for a permission.
func (ag *AuthGate) RegisterPolicy(perm gate.Permission, p gate.Policy[models.User]) {
	ag.Gate.Register(perm, p)
}

// Authorize checks if the current user may exercise perm on resource.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, perm gate.Permission, resource any) error {
	u, ok := UserFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, u, perm, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, perm gate.Permission, resource any) bool {
	return ag.Authorize(ctx, perm, resource) == nil
}

// CanProfile checks only the role permission (no resource check).
func (ag *AuthGate) CanProfile(ctx context.Context, perm gate.Permission) bool {
	u, ok := UserFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, u, perm)
}

// RequirePermission returns middleware that checks the role permission.
// A seller asking for the dashboard is sent to the quotes list instead of
// being shown an error.
func (ag *AuthGate) RequirePermission(perm gate.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ag.CanProfile(r.Context(), perm) {
				next.ServeHTTP(w, r)
				return
			}
			if u, ok := UserFromContext(r.Context()); ok && u.Role == models.RoleVendedor && perm == ViewHome {
				http.Redirect(w, r, QuotesPath, http.StatusSeeOther)
				return
			}
			http.Error(w, ForbiddenMessage, http.StatusForbidden)
		})
	}
}
