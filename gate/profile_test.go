package gate_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/diewo77/go-cotizaciones/gate"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	profile := gate.NewStaticProfile("vendedor", "view_quotes", "create_quote")

	if !profile.HasPermission("create_quote") {
		t.Error("should have create_quote permission")
	}
	if profile.HasPermission("delete_quote") {
		t.Error("should not have delete_quote permission")
	}
}

func TestStaticProfile_HasPermission_Wildcard(t *testing.T) {
	profile := gate.NewStaticProfile("jefe", gate.PermissionAll)

	for _, p := range []gate.Permission{"view_home", "manage_users", "delete_quote"} {
		if !profile.HasPermission(p) {
			t.Errorf("wildcard profile should have %q", p)
		}
	}
}

func TestStaticProfile_PermissionsSorted(t *testing.T) {
	profile := gate.NewStaticProfile("x", "view_quotes", "create_quote", "view_clients")
	want := []gate.Permission{"create_quote", "view_clients", "view_quotes"}
	if got := profile.Permissions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Permissions() = %v, want %v", got, want)
	}
}

func TestResolverFunc(t *testing.T) {
	viewer := gate.NewStaticProfile("viewer", "view_products")
	resolver := gate.ResolverFunc[string](func(_ context.Context, user string) (gate.Profile, error) {
		if user == "ana" {
			return viewer, nil
		}
		return nil, nil
	})

	resolved, err := resolver.Resolve(context.Background(), "ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved == nil || resolved.Name() != "viewer" {
		t.Fatalf("expected viewer profile, got %v", resolved)
	}

	unknown, err := resolver.Resolve(context.Background(), "luis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unknown != nil {
		t.Error("expected nil for unknown user")
	}
}
