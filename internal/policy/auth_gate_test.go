package policy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/policy"
)

func user(id string, role models.Role) models.User {
	return models.User{ID: models.ID(id), Name: "U" + id, Email: id + "@example.com", Role: role}
}

func serve(ag *policy.AuthGate, perm gate.Permission, u *models.User) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r := httptest.NewRequest(http.MethodGet, "/home", nil)
	if u != nil {
		r = r.WithContext(policy.WithUser(r.Context(), *u))
	}
	w := httptest.NewRecorder()
	ag.RequirePermission(perm)(next).ServeHTTP(w, r)
	return w
}

func TestHasPermission_RoleTable(t *testing.T) {
	jefe := user("1", models.RoleJefe)
	admin := user("2", models.RoleAdmin)
	seller := user("3", models.RoleVendedor)
	unknown := user("4", models.RoleUnknown)

	cases := []struct {
		name string
		u    *models.User
		perm gate.Permission
		want bool
	}{
		{"jefe any token", &jefe, "anything_at_all", true},
		{"jefe manage users", &jefe, policy.ManageUsers, true},
		{"admin view users", &admin, policy.ViewUsers, true},
		{"admin manage users", &admin, policy.ManageUsers, false},
		{"admin import products", &admin, policy.ImportProducts, true},
		{"seller create quote", &seller, policy.CreateQuote, true},
		{"seller home", &seller, policy.ViewHome, false},
		{"seller delete quote", &seller, policy.DeleteQuote, false},
		{"unknown role", &unknown, policy.ViewQuotes, false},
		{"nil user", nil, policy.ViewQuotes, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.HasPermission(tc.u, tc.perm); got != tc.want {
				t.Fatalf("HasPermission(%s) = %v, want %v", tc.perm, got, tc.want)
			}
		})
	}
}

func TestRequirePermission_SellerHomeRedirects(t *testing.T) {
	ag := policy.NewAuthGate()
	seller := user("3", models.RoleVendedor)

	w := serve(ag, policy.ViewHome, &seller)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/quotes" {
		t.Fatalf("expected redirect to /quotes got %q", loc)
	}
}

func TestRequirePermission_Forbidden(t *testing.T) {
	ag := policy.NewAuthGate()
	seller := user("3", models.RoleVendedor)
	admin := user("2", models.RoleAdmin)

	w := serve(ag, policy.ManageProducts, &seller)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
	if body := w.Body.String(); body != "No autorizado\n" {
		t.Fatalf("unexpected body %q", body)
	}
	if w := serve(ag, policy.ViewHome, &admin); w.Code != http.StatusOK {
		t.Fatalf("admin should see home, got %d", w.Code)
	}
	// No user at all is a plain denial, not a redirect.
	if w := serve(ag, policy.ViewHome, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without user got %d", w.Code)
	}
}

func TestRequirePermission_JefePassesEverything(t *testing.T) {
	ag := policy.NewAuthGate()
	jefe := user("1", models.RoleJefe)
	for _, perm := range []gate.Permission{policy.ViewHome, policy.ManageUsers, policy.DeleteQuote, "made_up"} {
		if w := serve(ag, perm, &jefe); w.Code != http.StatusOK {
			t.Fatalf("jefe denied %s: %d", perm, w.Code)
		}
	}
}

func TestAuthorize_AssignedCompany(t *testing.T) {
	ag := policy.NewAuthGate()
	seller := user("3", models.RoleVendedor)
	seller.Extra.AssignedCompanyID = "emp-1"
	free := user("5", models.RoleVendedor)

	own := models.Quote{CompanyID: "emp-1"}
	other := models.Quote{CompanyID: "emp-2"}

	ctx := policy.WithUser(context.Background(), seller)
	if err := ag.Authorize(ctx, policy.CreateQuote, own); err != nil {
		t.Fatalf("own company should pass: %v", err)
	}
	if err := ag.Authorize(ctx, policy.CreateQuote, other); !errors.Is(err, gate.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized got %v", err)
	}
	if !ag.Can(ctx, policy.CreateQuote, nil) {
		t.Fatal("nil resource should only check the role")
	}

	ctx = policy.WithUser(context.Background(), free)
	if !ag.Can(ctx, policy.CreateQuote, other) {
		t.Fatal("seller without assignment may quote for any company")
	}
	if ag.Can(context.Background(), policy.ViewQuotes, nil) {
		t.Fatal("anonymous context must be denied")
	}
}
