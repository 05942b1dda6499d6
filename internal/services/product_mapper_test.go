package services

import (
	"testing"

	"github.com/diewo77/go-cotizaciones/internal/remote"
)

func TestMapProductRow(t *testing.T) {
	row := map[string]string{
		"DESCRIPCION":  "Monitor de signos vitales",
		"MARCA":        "Mindray",
		"MODELO":       "uMEC10",
		"CATEGORIA":    "equipo medico",
		"UNIDAD":       "PZA",
		"PRECIO VENTA": "$45,500.456",
		"PROVEEDOR":    "Proveedora SA",
		"GARANTIA":     "1 año",
	}
	p := MapProductRow(row)

	if p.SKU != "uMEC10" {
		t.Errorf("SKU = %q", p.SKU)
	}
	if p.Name != "Monitor de signos vitales" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.BasePrice != 45500.46 {
		t.Errorf("BasePrice = %v", p.BasePrice)
	}
	if p.Category != CategoryEquipo {
		t.Errorf("Category = %q", p.Category)
	}
	if p.Metadata["GARANTIA"] != "1 año" || p.Metadata["PRECIO VENTA"] != "$45,500.456" {
		t.Errorf("columns not preserved verbatim: %v", p.Metadata)
	}
	if p.Metadata[MetaNormalizedCategory] != CategoryEquipo {
		t.Errorf("normalized category missing: %v", p.Metadata)
	}
}

func TestMapProductRow_Fallbacks(t *testing.T) {
	p := MapProductRow(map[string]string{"MARCA": "Mindray", "MODELO": "uMEC10", "PRECIO VENTA": "n/a"})
	if p.Name != "Mindray uMEC10" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.BasePrice != 0 {
		t.Errorf("BasePrice = %v, want 0", p.BasePrice)
	}

	empty := MapProductRow(map[string]string{})
	if empty.Name != PlaceholderProductName {
		t.Errorf("Name = %q", empty.Name)
	}
	if empty.SKU == "" {
		t.Error("SKU must be generated when the model is blank")
	}
	if empty.Category != "" || empty.Metadata[MetaNormalizedCategory] != "" {
		t.Errorf("empty category expected, got %q", empty.Category)
	}

	if ValidProductRow(map[string]string{"CATEGORIA": "equipo"}) {
		t.Error("row without description, brand or model is invalid")
	}
	if !ValidProductRow(map[string]string{"MODELO": "X1"}) {
		t.Error("row with a model is valid")
	}
}

func TestProductRemoteRoundTrip(t *testing.T) {
	rec := remote.ProductRecord{ID: "4", SKU: "", Nombre: "", Marca: "GE", Modelo: "B40", Categoria: "refacciones", PrecioBase: 10.005}
	p := ProductFromRemote(rec)
	if p.SKU != "B40" || p.Name != "GE B40" || p.Category != CategoryRefacciones || p.BasePrice != 10.01 {
		t.Fatalf("unexpected product %+v", p)
	}
	back := ProductToRemote(p)
	if back.ID != "4" || back.Modelo != "B40" || back.PrecioBase != 10.01 {
		t.Fatalf("unexpected record %+v", back)
	}
}

func TestFilterProducts(t *testing.T) {
	list := ProductsFromRemote([]remote.ProductRecord{
		{ID: "1", Nombre: "Sensor SpO2", Categoria: "accesorios"},
		{ID: "2", Nombre: "Monitor", Categoria: "equipo"},
		{ID: "3", Nombre: "Cable ECG", Categoria: "Accesorio"},
	})
	got := FilterProducts(list, "accesorio", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 accessories, got %d", len(got))
	}
	got = FilterProducts(list, "", "monitor")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("unexpected search result %+v", got)
	}
}
