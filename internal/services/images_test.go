package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

func TestCandidates(t *testing.T) {
	got := Candidates(models.Product{SKU: "mx-1", Model: "Mx 1"})
	if got[0] != "mx-1.jpg" || got[3] != "mx-1.webp" || got[4] != "Mx 1.jpg" {
		t.Fatalf("unexpected candidate order %v", got)
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate candidate %q", c)
		}
		seen[c] = true
	}
}

func TestDiscoverAll(t *testing.T) {
	var (
		mu    sync.Mutex
		tried []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		mu.Lock()
		tried = append(tried, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/img/MX-1.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewImageDiscoverer(srv.URL + "/img/")
	products := []models.Product{
		{SKU: "MX-1"},
		{SKU: "HAS", Image: "https://cdn.example.com/has.jpg"},
		{SKU: "NONE"},
	}
	out, found := d.DiscoverAll(context.Background(), products)
	if found != 1 {
		t.Fatalf("found = %d", found)
	}
	if out[0].Image != srv.URL+"/img/MX-1.png" {
		t.Errorf("Image = %q", out[0].Image)
	}
	if out[1].Image != "https://cdn.example.com/has.jpg" || out[2].Image != "" {
		t.Errorf("unexpected images %+v", out)
	}
	if products[0].Image != "" {
		t.Error("input slice must not be modified")
	}
	// MX-1: jpg, jpeg, png; NONE: four misses
	mu.Lock()
	defer mu.Unlock()
	if len(tried) != 7 {
		t.Errorf("expected sequential lookups to stop at the first hit, got %v", tried)
	}
}
