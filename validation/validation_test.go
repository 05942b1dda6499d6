package validation

import "testing"

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("client", "  ", v)
	MinInt("items[0].quantity", 0, 1, v)
	NonNegativeFloat("items[0].price", -1, v)
	Email("email", "no-at-sign", v)
	OneOf("role", "gerente", []string{"jefe", "admin", "vendedor"}, v)

	want := map[string]string{
		"client":            "required",
		"items[0].quantity": "too_small",
		"items[0].price":    "must_not_be_negative",
		"email":             "invalid_email",
		"role":              "invalid_choice",
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s: expected %q got %q", k, code, v[k])
		}
	}
}

func TestValidatorsAcceptGoodInput(t *testing.T) {
	v := Violations{}
	Required("client", "Hospital General", v)
	MinInt("quantity", 1, 1, v)
	NonNegativeFloat("price", 0, v)
	Email("email", "ventas@example.com", v)
	Email("optional", "", v)
	OneOf("role", "admin", []string{"jefe", "admin", "vendedor"}, v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}
