package gate_test

import (
	"testing"

	"github.com/diewo77/go-cotizaciones/gate"
)

func TestPermission_Matches_Exact(t *testing.T) {
	perm := gate.Permission("create_quote")
	if !perm.Matches("create_quote") {
		t.Error("expected exact match to succeed")
	}
	if perm.Matches("delete_quote") {
		t.Error("expected different token to fail")
	}
}

func TestPermission_Matches_Wildcard(t *testing.T) {
	perm := gate.PermissionAll
	for _, requested := range []gate.Permission{"view_home", "manage_users", "anything_else"} {
		if !perm.Matches(requested) {
			t.Errorf("wildcard should match %q", requested)
		}
	}
}

func TestPermission_Matches_Empty(t *testing.T) {
	var empty gate.Permission
	if empty.Matches("") {
		t.Error("empty permission should not match empty request")
	}
	if empty.Matches("view_home") {
		t.Error("empty permission should not match anything")
	}
}
