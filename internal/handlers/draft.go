package handlers

import (
	"log"
	"net/http"

	"github.com/diewo77/go-cotizaciones/auth"
	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/db"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/policy"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"gorm.io/gorm"
)

// DraftHandler drives the in-progress quote form. The draft lives in the
// session store so it survives a trip to the product picker.
type DraftHandler struct {
	db     *gorm.DB
	remote *remote.Client
	quotes *services.QuoteService
	gate   *policy.AuthGate
}

func NewDraftHandler(conn *gorm.DB, rc *remote.Client, quotes *services.QuoteService, ag *policy.AuthGate) *DraftHandler {
	return &DraftHandler{db: conn, remote: rc, quotes: quotes, gate: ag}
}

type draftView struct {
	Draft    *services.QuoteDraft `json:"draft"`
	Total    float64              `json:"total"`
	Restored bool                 `json:"restored,omitempty"`
}

func (h *DraftHandler) session(r *http.Request) *services.DraftSession {
	sid, _ := auth.SessionIDFromContext(r.Context())
	return services.NewDraftSession(db.SessionStore(h.db, sid))
}

func (h *DraftHandler) catalog(r *http.Request) *services.CatalogCache {
	return services.NewCatalogCache(h.remote, db.LocalStore(h.db, currentUser(r).ID))
}

// edit loads the working copy, applies fn and saves the result.
func (h *DraftHandler) edit(w http.ResponseWriter, r *http.Request, status int, fn func(d *services.QuoteDraft) bool) {
	s := h.session(r)
	d, err := s.Current(r.Context())
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	if !fn(d) {
		return
	}
	if err := s.Save(r.Context(), d); err != nil {
		writeError(w, r, "draft", err)
		return
	}
	httpx.OK(w, status, draftView{Draft: d, Total: d.Total()})
}

// Open is called when the quote form is entered.
func (h *DraftHandler) Open(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	d, restored, err := s.Open(r.Context())
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	if company, ok := currentUser(r).AssignedCompany(); ok && !restored {
		d.CompanyID = company
		if err := s.Save(r.Context(), d); err != nil {
			writeError(w, r, "draft", err)
			return
		}
	}
	httpx.OK(w, http.StatusOK, draftView{Draft: d, Total: d.Total(), Restored: restored})
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.session(r).Current(r.Context())
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	httpx.OK(w, http.StatusOK, draftView{Draft: d, Total: d.Total()})
}

func (h *DraftHandler) Fields(w http.ResponseWriter, r *http.Request) {
	var p services.FieldsPatch
	if err := httpx.Decode(r, &p); err != nil {
		invalidJSON(w, r)
		return
	}
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		d.ApplyFields(p)
		if err := h.gate.Authorize(r.Context(), policy.CreateQuote, d); err != nil {
			writeError(w, r, "draft", err)
			return false
		}
		return true
	})
}

type addItemRequest struct {
	Code string `json:"code"`
}

// AddItem adds a catalog product by code, or bumps its quantity.
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.Decode(r, &req); err != nil || req.Code == "" {
		invalidJSON(w, r)
		return
	}
	// remote first: the line snapshots the product's current price
	products, err := h.catalog(r).Products(r.Context(), true)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	product, ok := findProduct(products, req.Code)
	if !ok {
		fail(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		d.AddOrIncrement(product)
		return true
	})
}

func findProduct(products []models.Product, code string) (models.Product, bool) {
	for _, p := range products {
		if p.Code() == code {
			return p, true
		}
	}
	for _, p := range products {
		if p.SKU != "" && p.SKU == code {
			return p, true
		}
	}
	return models.Product{}, false
}

func (h *DraftHandler) AddManual(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		d.AddManual()
		return true
	})
}

// PatchItem edits a line. Catalog prices are locked for users without price
// rights; a line's code cannot be patched, so a manual line stays manual.
func (h *DraftHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		fail(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	var patch services.ItemPatch
	if err := httpx.Decode(r, &patch); err != nil {
		invalidJSON(w, r)
		return
	}
	canPrice := currentUser(r).CanModifyPrices()
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		if index >= 0 && index < len(d.Items) && patch.BasePrice != nil && !canPrice && d.Items[index].Code != "" {
			fail(w, r, http.StatusForbidden, "price_locked", nil)
			return false
		}
		if err := d.Update(index, patch); err != nil {
			writeError(w, r, "draft", err)
			return false
		}
		return true
	})
}

func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		fail(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		if err := d.Remove(index); err != nil {
			writeError(w, r, "draft", err)
			return false
		}
		return true
	})
}

type selectClientRequest struct {
	ClientID     string `json:"clientId"`
	ContactIndex *int   `json:"contactIndex,omitempty"`
}

// SelectClient snapshots a client and one of its contacts into the draft.
func (h *DraftHandler) SelectClient(w http.ResponseWriter, r *http.Request) {
	var req selectClientRequest
	if err := httpx.Decode(r, &req); err != nil || req.ClientID == "" {
		invalidJSON(w, r)
		return
	}
	rows, err := h.catalog(r).ClientRows(r.Context(), true)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	group, first, ok := findClient(rows, models.ID(req.ClientID))
	if !ok {
		fail(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	h.edit(w, r, http.StatusOK, func(d *services.QuoteDraft) bool {
		d.SelectClient(req.ClientID, group, services.FormatAddress(first))
		if i := req.ContactIndex; i != nil && *i >= 0 && *i < len(group.Contacts) {
			d.SelectContact(group.Contacts[*i])
		}
		return true
	})
}

// findClient returns the group holding the client's first row, and that row.
func findClient(rows []models.ClientRow, clientID models.ID) (models.ClientGroup, models.ClientRow, bool) {
	var first models.ClientRow
	found := false
	for _, row := range rows {
		if row.ClientID == clientID {
			first, found = row, true
			break
		}
	}
	if !found {
		return models.ClientGroup{}, models.ClientRow{}, false
	}
	for _, g := range services.FoldClientRows(rows) {
		for _, id := range g.RowIDs {
			if id == first.ID {
				return g, first, true
			}
		}
	}
	return models.ClientGroup{}, models.ClientRow{}, false
}

// Pick saves the draft and raises the return flag before the user leaves
// for the product picker.
func (h *DraftHandler) Pick(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	d, err := s.Current(r.Context())
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	if err := s.BeginPick(r.Context(), d); err != nil {
		writeError(w, r, "draft", err)
		return
	}
	httpx.OK(w, http.StatusOK, draftView{Draft: d, Total: d.Total()})
}

func (h *DraftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.session(r).Clear(r.Context()); err != nil {
		writeError(w, r, "draft", err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

// Submit turns the draft into a stored quote and clears it.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	d, err := s.Current(r.Context())
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	if _, ok := submitDraft(w, r, h.quotes, h.gate, d); !ok {
		return
	}
	if err := s.Clear(r.Context()); err != nil {
		// the quote is stored; a leftover draft is discarded on the next open
		log.Printf("[draft] clear after submit failed: %v", err)
	}
}
