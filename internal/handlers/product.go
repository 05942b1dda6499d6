package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/db"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/diewo77/go-cotizaciones/validation"
	"gorm.io/gorm"
)

type ProductHandler struct {
	db       *gorm.DB
	remote   *remote.Client
	importer *services.Importer
	images   *services.ImageDiscoverer
}

func NewProductHandler(conn *gorm.DB, rc *remote.Client, importer *services.Importer, images *services.ImageDiscoverer) *ProductHandler {
	return &ProductHandler{db: conn, remote: rc, importer: importer, images: images}
}

func (h *ProductHandler) cache(r *http.Request) *services.CatalogCache {
	return services.NewCatalogCache(h.remote, db.LocalStore(h.db, currentUser(r).ID))
}

// List serves the catalog from the local mirror, filtered by ?category= and ?q=.
// ?refresh=1 forces a remote read.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	refresh := query.Get("refresh") == "1" || query.Get("refresh") == "true"

	products, err := h.cache(r).Products(r.Context(), refresh)
	if err != nil {
		writeError(w, r, "products", err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"products":   services.FilterProducts(products, query.Get("category"), query.Get("q")),
		"categories": services.Categories(),
		"total":      len(products),
	})
}

func validateProduct(p models.Product) validation.Violations {
	v := make(validation.Violations)
	if strings.TrimSpace(p.DisplayName()) == "" {
		v["name"] = "required"
	}
	validation.NonNegativeFloat("basePrice", p.BasePrice, v)
	return v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := httpx.Decode(r, &p); err != nil {
		invalidJSON(w, r)
		return
	}
	if v := validateProduct(p); !v.Empty() {
		validationFailed(w, r, v)
		return
	}
	p.ID = ""
	p.Category = services.NormalizeCategory(p.Category)

	rec, err := h.remote.Products.Create(r.Context(), services.ProductToRemote(p))
	if err != nil {
		writeError(w, r, "products", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ProductsCacheKey)
	httpx.OK(w, http.StatusCreated, services.ProductFromRemote(*rec))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var p models.Product
	if err := httpx.Decode(r, &p); err != nil {
		invalidJSON(w, r)
		return
	}
	if v := validateProduct(p); !v.Empty() {
		validationFailed(w, r, v)
		return
	}
	p.ID = id
	p.Category = services.NormalizeCategory(p.Category)

	rec, err := h.remote.Products.Update(r.Context(), id, services.ProductToRemote(p))
	if err != nil {
		writeError(w, r, "products", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ProductsCacheKey)
	httpx.OK(w, http.StatusOK, services.ProductFromRemote(*rec))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.remote.Products.Delete(r.Context(), pathID(r, "id")); err != nil {
		writeError(w, r, "products", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ProductsCacheKey)
	httpx.OK(w, http.StatusOK, nil)
}

// Import loads a product spreadsheet from the "file" form field.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	name, data, ok := readUpload(w, r)
	if !ok {
		return
	}
	report, err := h.importer.ImportProducts(r.Context(), name, data)
	if errors.Is(err, services.ErrEmptyImport) {
		fail(w, r, http.StatusUnprocessableEntity, "empty_import", report)
		return
	}
	if err != nil {
		writeError(w, r, "import", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ProductsCacheKey)
	httpx.OK(w, http.StatusOK, report)
}

// DiscoverImages starts image probing in the background and answers at once.
func (h *ProductHandler) DiscoverImages(w http.ResponseWriter, r *http.Request) {
	if h.images == nil || h.images.BaseURL == "" {
		fail(w, r, http.StatusServiceUnavailable, "images_disabled", nil)
		return
	}
	// keeps the session token but outlives the request
	ctx := context.WithoutCancel(r.Context())
	cache := h.cache(r)
	go h.images.DiscoverIntoCache(ctx, cache)
	httpx.OK(w, http.StatusAccepted, map[string]string{"status": "started"})
}
