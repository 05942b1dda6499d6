package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-cotizaciones/gate"
)

type testUser struct {
	Name    string
	Role    string
	Company string
}

type companyResource struct {
	Company string
}

func roleResolver() gate.ProfileResolver[testUser] {
	profiles := map[string]gate.Profile{
		"jefe":     gate.NewStaticProfile("jefe", gate.PermissionAll),
		"vendedor": gate.NewStaticProfile("vendedor", "view_quotes", "create_quote"),
	}
	return gate.ResolverFunc[testUser](func(_ context.Context, u testUser) (gate.Profile, error) {
		return profiles[u.Role], nil
	})
}

// companyPolicy only lets a user with a company touch resources of that company.
var companyPolicy = gate.PolicyFunc[testUser](func(_ context.Context, u testUser, _ gate.Permission, resource any) bool {
	r, ok := resource.(*companyResource)
	if !ok {
		return false
	}
	return u.Company == "" || u.Company == r.Company
})

func TestHybridGate_ProfileOnly(t *testing.T) {
	g := gate.NewHybridGate[testUser](roleResolver())
	seller := testUser{Name: "ana", Role: "vendedor"}

	if !g.Can(context.Background(), seller, "create_quote", nil) {
		t.Error("user with permission should be allowed")
	}
	if g.Can(context.Background(), seller, "delete_quote", nil) {
		t.Error("user without permission should be denied")
	}
	if g.Can(context.Background(), testUser{}, "view_quotes", nil) {
		t.Error("zero user should be denied")
	}
}

func TestHybridGate_NoProfile(t *testing.T) {
	g := gate.NewHybridGate[testUser](roleResolver())
	err := g.Authorize(context.Background(), testUser{Name: "x", Role: "intern"}, "view_quotes", nil)
	if !errors.Is(err, gate.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
}

func TestHybridGate_ResolverError(t *testing.T) {
	failing := gate.ResolverFunc[testUser](func(context.Context, testUser) (gate.Profile, error) {
		return nil, errors.New("boom")
	})
	g := gate.NewHybridGate[testUser](failing)
	if err := g.Authorize(context.Background(), testUser{Name: "a"}, "view_quotes", nil); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHybridGate_WithPolicy(t *testing.T) {
	g := gate.NewHybridGate[testUser](roleResolver())
	g.Register("create_quote", companyPolicy)

	assigned := testUser{Name: "ana", Role: "vendedor", Company: "medica-norte"}

	if !g.Can(context.Background(), assigned, "create_quote", &companyResource{Company: "medica-norte"}) {
		t.Error("assigned company should be allowed")
	}
	if g.Can(context.Background(), assigned, "create_quote", &companyResource{Company: "otra"}) {
		t.Error("other company should be denied even with profile permission")
	}
	// nil resource skips the policy
	if !g.Can(context.Background(), assigned, "create_quote", nil) {
		t.Error("nil resource should only check the profile")
	}
}

func TestHybridGate_CanProfile(t *testing.T) {
	g := gate.NewHybridGate[testUser](roleResolver())
	g.Register("create_quote", companyPolicy)
	boss := testUser{Name: "jorge", Role: "jefe"}

	if !g.CanProfile(context.Background(), boss, "manage_users") {
		t.Error("wildcard profile should pass CanProfile")
	}
	if g.CanProfile(context.Background(), testUser{}, "view_quotes") {
		t.Error("zero user should fail CanProfile")
	}
	if p := g.Profile(context.Background(), boss); p == nil || p.Name() != "jefe" {
		t.Errorf("Profile() = %v, want jefe", p)
	}
}
