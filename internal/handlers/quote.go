package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/db"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/pdf"
	"github.com/diewo77/go-cotizaciones/internal/policy"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/diewo77/go-cotizaciones/validation"
	"gorm.io/gorm"
)

type QuoteHandler struct {
	db     *gorm.DB
	remote *remote.Client
	quotes *services.QuoteService
	gate   *policy.AuthGate
	pdf    *pdf.Generator
}

func NewQuoteHandler(conn *gorm.DB, rc *remote.Client, quotes *services.QuoteService, ag *policy.AuthGate, gen *pdf.Generator) *QuoteHandler {
	return &QuoteHandler{db: conn, remote: rc, quotes: quotes, gate: ag, pdf: gen}
}

func (h *QuoteHandler) catalog(r *http.Request) *services.CatalogCache {
	return services.NewCatalogCache(h.remote, db.LocalStore(h.db, currentUser(r).ID))
}

// snapshotPrices sets every catalog line whose code is not in keep to the
// current catalog price. On failure the response is written and false returned.
func (h *QuoteHandler) snapshotPrices(w http.ResponseWriter, r *http.Request, items []models.QuoteItem, keep map[string]bool) bool {
	products, err := h.catalog(r).Products(r.Context(), true)
	if err != nil {
		writeError(w, r, "quotes", err)
		return false
	}
	v := validation.Violations{}
	for i := range items {
		code := strings.TrimSpace(items[i].Code)
		if code == "" || keep[code] {
			continue
		}
		p, ok := findProduct(products, code)
		if !ok {
			v["products["+strconv.Itoa(i)+"].code"] = "unknown_product"
			continue
		}
		items[i].BasePrice = services.Round2(p.BasePrice)
	}
	if !v.Empty() {
		validationFailed(w, r, v)
		return false
	}
	return true
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, "quotes", err)
		return
	}
	httpx.OK(w, http.StatusOK, quotes)
}

// load fetches a quote the current user may see. Quotes of other sellers are
// reported as missing to vendedores.
func (h *QuoteHandler) load(w http.ResponseWriter, r *http.Request) (models.Quote, bool) {
	q, err := h.quotes.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, "quotes", err)
		return models.Quote{}, false
	}
	u := currentUser(r)
	if u.Role == models.RoleVendedor && !services.OwnsQuote(u, q) {
		fail(w, r, http.StatusNotFound, "not_found", nil)
		return models.Quote{}, false
	}
	return q, true
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.OK(w, http.StatusOK, q)
}

// Create stores a quote from a complete form payload, bypassing the session
// draft. Catalog lines of users without price rights take the catalog price.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	d := services.NewQuoteDraft()
	if err := httpx.Decode(r, d); err != nil {
		invalidJSON(w, r)
		return
	}
	if !currentUser(r).CanModifyPrices() && !h.snapshotPrices(w, r, d.Items, nil) {
		return
	}
	submitDraft(w, r, h.quotes, h.gate, d)
}

func submitDraft(w http.ResponseWriter, r *http.Request, quotes *services.QuoteService, ag *policy.AuthGate, d *services.QuoteDraft) (models.Quote, bool) {
	if err := ag.Authorize(r.Context(), policy.CreateQuote, d); err != nil {
		writeError(w, r, "quotes", err)
		return models.Quote{}, false
	}
	q, v, err := quotes.Create(r.Context(), currentUser(r), d)
	if v != nil {
		validationFailed(w, r, v)
		return models.Quote{}, false
	}
	if err != nil {
		writeError(w, r, "quotes", err)
		return models.Quote{}, false
	}
	httpx.OK(w, http.StatusCreated, q)
	return q, true
}

// Update changes status, terms or line items. Users without price rights
// cannot change the price of catalog lines.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.gate.Authorize(r.Context(), policy.EditQuote, q); err != nil {
		writeError(w, r, "quotes", err)
		return
	}
	var upd services.QuoteUpdate
	if err := httpx.Decode(r, &upd); err != nil {
		invalidJSON(w, r)
		return
	}
	if upd.Items != nil && !currentUser(r).CanModifyPrices() {
		if catalogPriceChanged(q.Items, *upd.Items) {
			fail(w, r, http.StatusForbidden, "price_locked", nil)
			return
		}
		if !h.snapshotPrices(w, r, *upd.Items, storedCodes(q.Items)) {
			return
		}
	}
	out, v, err := h.quotes.Update(r.Context(), q.ID, upd)
	if v != nil {
		validationFailed(w, r, v)
		return
	}
	if err != nil {
		writeError(w, r, "quotes", err)
		return
	}
	httpx.OK(w, http.StatusOK, out)
}

// catalogPriceChanged reports whether a line with a catalog code now carries
// a price different from the stored line with the same code.
func catalogPriceChanged(before, after []models.QuoteItem) bool {
	prices := make(map[string]float64, len(before))
	for _, it := range before {
		if it.Code != "" {
			prices[it.Code] = it.BasePrice
		}
	}
	for _, it := range after {
		if old, ok := prices[it.Code]; ok && it.Code != "" && services.Round2(old) != services.Round2(it.BasePrice) {
			return true
		}
	}
	return false
}

func storedCodes(items []models.QuoteItem) map[string]bool {
	codes := make(map[string]bool, len(items))
	for _, it := range items {
		if code := strings.TrimSpace(it.Code); code != "" {
			codes[code] = true
		}
	}
	return codes
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.quotes.Delete(r.Context(), q.ID); err != nil {
		writeError(w, r, "quotes", err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

// PDF renders the quote for download.
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	body, err := h.pdf.Generate(q)
	if err != nil {
		writeError(w, r, "pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdf.Filename(q)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
