package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestID_UnmarshalNumberOrString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"number", `{"id": 42}`, "42"},
		{"string", `{"id": "42"}`, "42"},
		{"uuid", `{"id": "a1b2-c3"}`, "a1b2-c3"},
		{"null", `{"id": null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if v.ID != tt.want {
				t.Errorf("got %q, want %q", v.ID, tt.want)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := map[string]QuoteStatus{
		"":            StatusPendiente,
		"pendiente":   StatusPendiente,
		"Confirmada":  StatusConfirmada,
		"APROBADA":    StatusConfirmada,
		"aceptada":    StatusConfirmada,
		"rechazada":   StatusRechazada,
		"Cancelada":   StatusRechazada,
		"en revisión": StatusPendiente,
	}
	for in, want := range tests {
		if got := ClassifyStatus(in); got != want {
			t.Errorf("ClassifyStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole(" Jefe ") != RoleJefe || ParseRole("VENDEDOR") != RoleVendedor || ParseRole("admin") != RoleAdmin {
		t.Fatal("known roles must parse case-insensitively")
	}
	if ParseRole("gerente") != RoleUnknown {
		t.Fatal("unknown role must map to RoleUnknown")
	}
}

func TestUser_CanModifyPrices(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"jefe always", User{Role: RoleJefe}, true},
		{"admin with toggle", User{Role: RoleAdmin, Extra: UserExtra{CanModifyPrices: true}}, true},
		{"admin without toggle", User{Role: RoleAdmin}, false},
		{"vendedor never", User{Role: RoleVendedor, Extra: UserExtra{CanModifyPrices: true}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanModifyPrices(); got != tt.want {
				t.Errorf("CanModifyPrices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_NormalizeExtra(t *testing.T) {
	u := User{Role: RoleAdmin, Extra: UserExtra{CanModifyPrices: true, AssignedCompanyID: "7"}}.NormalizeExtra()
	if !u.Extra.CanModifyPrices || u.Extra.AssignedCompanyID != "" {
		t.Fatalf("admin keeps the price toggle only: %+v", u.Extra)
	}
	v := User{Role: RoleVendedor, Extra: UserExtra{CanModifyPrices: true, AssignedCompanyID: "7"}}.NormalizeExtra()
	if v.Extra.CanModifyPrices || v.Extra.AssignedCompanyID != "7" {
		t.Fatalf("vendedor keeps the company only: %+v", v.Extra)
	}
	if id, ok := v.AssignedCompany(); !ok || id != "7" {
		t.Fatalf("AssignedCompany() = %q, %v", id, ok)
	}
}

func TestComputeTotal(t *testing.T) {
	items := []QuoteItem{{Quantity: 2, BasePrice: 10.005}, {Quantity: 1, BasePrice: 5}}
	if got := ComputeTotal(items); math.Abs(got-25.01) > 1e-9 {
		t.Errorf("ComputeTotal() = %v, want 25.01", got)
	}
}

func TestProduct_CodeAndDisplayName(t *testing.T) {
	p := Product{SKU: "MX-100", Brand: "Mindray", Model: "MX-100"}
	if p.Code() != "MX-100" {
		t.Errorf("Code() = %q", p.Code())
	}
	p.ID = "15"
	if p.Code() != "15" {
		t.Errorf("Code() should prefer the id, got %q", p.Code())
	}
	if p.DisplayName() != "Mindray MX-100" {
		t.Errorf("DisplayName() = %q", p.DisplayName())
	}
	p.Description = "Monitor de signos vitales"
	if p.DisplayName() != "Monitor de signos vitales" {
		t.Errorf("DisplayName() = %q", p.DisplayName())
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	if (Session{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatal("future expiry must not be expired")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Fatal("expiry equal to now is expired")
	}
}
