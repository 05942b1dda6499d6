package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

func TestGenerate(t *testing.T) {
	q := models.Quote{
		ID:          "7",
		Folio:       "LX2ABC9Q",
		Status:      models.StatusPendiente,
		SellerName:  "Andrés Núñez",
		ClientName:  "Hospital General de Zona",
		ClientEmail: "compras@hgz.mx",
		Items: []models.QuoteItem{
			{ID: 1, Code: "MON-100", Name: "Monitor de signos vitales", Quantity: 2, BasePrice: 12500.5},
			{ID: 2, Name: "Instalación", Quantity: 1, BasePrice: 800},
		},
		Terms:     "Precios en MXN. Vigencia de 30 días.",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	out, err := New().Generate(q)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", out[:8])
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(models.Quote{Folio: "ABC"}); got != "cotizacion-ABC.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := Filename(models.Quote{ID: "12"}); got != "cotizacion-12.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestTrim(t *testing.T) {
	if got := trim("abcdef", 4); got != "abc…" {
		t.Fatalf("got %q", got)
	}
	if got := trim("abc", 4); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
