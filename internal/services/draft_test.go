package services

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestAddOrIncrement_SameProduct(t *testing.T) {
	d := NewQuoteDraft()
	prices := []float64{10, 12.345, 15.555}
	for _, price := range prices {
		d.AddOrIncrement(models.Product{ID: "7", Description: "Sensor", BasePrice: price})
	}
	if len(d.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(d.Items))
	}
	it := d.Items[0]
	if it.Quantity != len(prices) {
		t.Errorf("Quantity = %d, want %d", it.Quantity, len(prices))
	}
	if it.BasePrice != 15.56 {
		t.Errorf("BasePrice = %v, want last price rounded (15.56)", it.BasePrice)
	}
	if it.Code != "7" || it.Name != "Sensor" {
		t.Errorf("unexpected line %+v", it)
	}
}

func TestAddOrIncrement_DistinctProductsKeepFirstInsertionOrder(t *testing.T) {
	d := NewQuoteDraft()
	a := models.Product{ID: "A", Brand: "GE", Model: "B40", BasePrice: 1}
	b := models.Product{ID: "B", Description: "Cable", BasePrice: 2}
	d.AddOrIncrement(a)
	d.AddOrIncrement(b)
	idx := d.AddOrIncrement(a)

	if idx != 0 {
		t.Errorf("re-increment should touch index 0, got %d", idx)
	}
	if len(d.Items) != 2 || d.Items[0].Code != "A" || d.Items[1].Code != "B" {
		t.Fatalf("unexpected lines %+v", d.Items)
	}
	if d.Items[0].Quantity != 2 || d.Items[1].Quantity != 1 {
		t.Fatalf("unexpected quantities %+v", d.Items)
	}
	if d.Items[0].Name != "GE B40" {
		t.Errorf("Name = %q, want brand and model", d.Items[0].Name)
	}
}

func TestAddOrIncrement_MatchesStringifiedCodes(t *testing.T) {
	d := NewQuoteDraft()
	d.Items = append(d.Items, models.QuoteItem{ID: 1, Code: "42", Quantity: 3, BasePrice: 1})
	d.AddOrIncrement(models.Product{ID: models.IDFromInt(42), BasePrice: 2})
	if len(d.Items) != 1 || d.Items[0].Quantity != 4 {
		t.Fatalf("numeric id should match string code: %+v", d.Items)
	}
}

func TestTotal_IndependentOfUpdateOrder(t *testing.T) {
	build := func(order []int) *QuoteDraft {
		d := NewQuoteDraft()
		d.AddManual()
		d.AddManual()
		patches := []ItemPatch{
			{Quantity: intPtr(2), BasePrice: floatPtr(10.005)},
			{Quantity: intPtr(1), BasePrice: floatPtr(5)},
		}
		for _, i := range order {
			if err := d.Update(i, patches[i]); err != nil {
				t.Fatal(err)
			}
		}
		return d
	}
	for _, order := range [][]int{{0, 1}, {1, 0}} {
		got := build(order).Total()
		if math.Abs(got-25.01) > 1e-9 {
			t.Errorf("order %v: Total() = %v, want 25.01", order, got)
		}
	}
}

func TestUpdate_OnlyNamedFields(t *testing.T) {
	d := NewQuoteDraft()
	d.AddOrIncrement(models.Product{ID: "1", Description: "Monitor", BasePrice: 100})
	d.AddOrIncrement(models.Product{ID: "2", Description: "Cable", BasePrice: 5})

	if err := d.Update(0, ItemPatch{Quantity: intPtr(4)}); err != nil {
		t.Fatal(err)
	}
	if d.Items[0].Quantity != 4 || d.Items[0].BasePrice != 100 || d.Items[0].Name != "Monitor" {
		t.Errorf("unexpected line 0 %+v", d.Items[0])
	}
	if d.Items[1].Quantity != 1 || d.Items[1].BasePrice != 5 {
		t.Errorf("line 1 must be untouched: %+v", d.Items[1])
	}
	if err := d.Update(5, ItemPatch{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	d := NewQuoteDraft()
	for _, id := range []models.ID{"a", "b", "c"} {
		d.AddOrIncrement(models.Product{ID: id, BasePrice: 1})
	}
	if err := d.Remove(1); err != nil {
		t.Fatal(err)
	}
	if len(d.Items) != 2 || d.Items[0].Code != "a" || d.Items[1].Code != "c" {
		t.Fatalf("unexpected lines %+v", d.Items)
	}
	if err := d.Remove(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestManualLines(t *testing.T) {
	d := NewQuoteDraft()
	d.AddManual()
	d.AddManual()
	if d.Items[0].ID >= d.Items[1].ID {
		t.Fatalf("line ids must increase: %d, %d", d.Items[0].ID, d.Items[1].ID)
	}
	if d.Items[0].Quantity != 1 || d.Items[0].BasePrice != 0 || d.Items[0].Code != "" {
		t.Fatalf("unexpected manual line %+v", d.Items[0])
	}
	if err := d.Update(0, ItemPatch{Name: strPtr("Servicio de calibración"), BasePrice: floatPtr(800)}); err != nil {
		t.Fatal(err)
	}
	if d.Total() != 800 {
		t.Fatalf("Total() = %v", d.Total())
	}
}

func TestSelectClient(t *testing.T) {
	d := NewQuoteDraft()
	g := models.ClientGroup{
		Hospital: "Hospital General",
		Contacts: []models.Encargado{{Name: "Ana", Email: "ana@hg.mx", Phone: "222"}},
	}
	d.SelectClient("5", g, "Av. Reforma 1, Puebla")
	if d.ClientID != "5" || d.ClientName != "Hospital General" || d.ContactName != "Ana" || d.ClientEmail != "ana@hg.mx" {
		t.Fatalf("unexpected draft %+v", d)
	}
	d.ApplyFields(FieldsPatch{ContactName: strPtr("  Luis "), Terms: strPtr("Precios más IVA")})
	if d.ContactName != "Luis" || d.Terms != "Precios más IVA" || d.ClientEmail != "ana@hg.mx" {
		t.Fatalf("unexpected fields %+v", d)
	}
}

func productFixture(id models.ID, price float64) models.Product {
	return models.Product{ID: id, Description: "Producto " + id.String(), BasePrice: price}
}

func TestFormatAddress(t *testing.T) {
	got := FormatAddress(models.ClientRow{Address: "Av. 5 de Mayo 10", City: "Puebla", State: "Puebla", PostalCode: "72000"})
	if got != "Av. 5 de Mayo 10, Puebla, Puebla C.P. 72000" {
		t.Fatalf("FormatAddress() = %q", got)
	}
}

func TestUpdate_CodeIsFixed(t *testing.T) {
	d := NewQuoteDraft()
	d.AddOrIncrement(models.Product{ID: "10", Description: "Monitor", BasePrice: 10})
	d.AddManual()

	var patch ItemPatch
	if err := json.Unmarshal([]byte(`{"code":"10","name":"Servicio","basePrice":1}`), &patch); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(1, patch); err != nil {
		t.Fatal(err)
	}
	if d.Items[1].Code != "" || d.Items[1].Name != "Servicio" {
		t.Fatalf("a patch must not give a manual line a catalog code: %+v", d.Items[1])
	}

	d.AddOrIncrement(models.Product{ID: "10", Description: "Monitor", BasePrice: 10})
	if len(d.Items) != 2 || d.Items[0].Quantity != 2 {
		t.Fatalf("codes must stay unique across lines: %+v", d.Items)
	}
}
