package services

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

var imageExtensions = []string{"jpg", "jpeg", "png", "webp"}

// ImageDiscoverer guesses product image URLs on the image host.
type ImageDiscoverer struct {
	BaseURL string
	HTTP    *http.Client
}

func NewImageDiscoverer(baseURL string) *ImageDiscoverer {
	return &ImageDiscoverer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Candidates lists the file names tried for p, SKU first, then model variants.
func Candidates(p models.Product) []string {
	var stems []string
	seen := map[string]bool{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		stems = append(stems, s)
	}
	add(p.SKU)
	if m := strings.TrimSpace(p.Model); m != "" {
		add(m)
		add(strings.ToUpper(m))
		add(strings.ToLower(m))
		add(strings.ReplaceAll(m, " ", "-"))
		add(strings.ReplaceAll(m, " ", "_"))
	}

	out := make([]string, 0, len(stems)*len(imageExtensions))
	for _, s := range stems {
		for _, ext := range imageExtensions {
			out = append(out, s+"."+ext)
		}
	}
	return out
}

// Discover tries candidates one at a time and returns the first that answers 2xx.
func (d *ImageDiscoverer) Discover(ctx context.Context, p models.Product) (string, bool) {
	if d.BaseURL == "" {
		return "", false
	}
	for _, name := range Candidates(p) {
		u := d.BaseURL + "/" + url.PathEscape(name)
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
		if err != nil {
			continue
		}
		resp, err := d.HTTP.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return u, true
		}
	}
	return "", false
}

// DiscoverAll fills Image for products that have none and returns the
// updated list with the number of images found.
func (d *ImageDiscoverer) DiscoverAll(ctx context.Context, products []models.Product) ([]models.Product, int) {
	out := append([]models.Product(nil), products...)
	found := 0
	for i := range out {
		if out[i].Image != "" {
			continue
		}
		if u, ok := d.Discover(ctx, out[i]); ok {
			out[i].Image = u
			found++
		}
	}
	return out, found
}

// DiscoverIntoCache runs discovery and writes the result into the catalog cache.
// Failures are logged only.
func (d *ImageDiscoverer) DiscoverIntoCache(ctx context.Context, cache *CatalogCache) {
	products, err := cache.Products(ctx, false)
	if err != nil {
		log.Printf("[images] loading catalog failed: %v", err)
		return
	}
	updated, found := d.DiscoverAll(ctx, products)
	if found == 0 {
		return
	}
	cache.StoreProducts(ctx, updated)
	log.Printf("[images] discovered %d product images", found)
}
