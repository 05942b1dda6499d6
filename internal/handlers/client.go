package handlers

import (
	"bytes"
	"encoding/json"
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

type ClientHandler struct {
	db       *gorm.DB
	remote   *remote.Client
	importer *services.Importer
}

func NewClientHandler(conn *gorm.DB, rc *remote.Client, importer *services.Importer) *ClientHandler {
	return &ClientHandler{db: conn, remote: rc, importer: importer}
}

func (h *ClientHandler) cache(r *http.Request) *services.CatalogCache {
	return services.NewCatalogCache(h.remote, db.LocalStore(h.db, currentUser(r).ID))
}

func (h *ClientHandler) rows(w http.ResponseWriter, r *http.Request) ([]models.ClientRow, bool) {
	refresh := r.URL.Query().Get("refresh") == "1" || r.URL.Query().Get("refresh") == "true"
	rows, err := h.cache(r).ClientRows(r.Context(), refresh)
	if err != nil {
		writeError(w, r, "clients", err)
		return nil, false
	}
	return filterRows(rows, r.URL.Query().Get("q")), true
}

func filterRows(rows []models.ClientRow, q string) []models.ClientRow {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]models.ClientRow, 0, len(rows))
	for _, row := range rows {
		hay := strings.ToLower(strings.Join([]string{
			row.Hospital, row.Company, row.Dependency, row.City, row.State,
			row.Equipment.Name, row.Equipment.Brand, row.Equipment.Model, row.Equipment.Serial,
		}, " "))
		if strings.Contains(hay, q) {
			out = append(out, row)
		}
	}
	return out
}

// List returns one row per client equipment.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r)
	if !ok {
		return
	}
	httpx.OK(w, http.StatusOK, rows)
}

// Groups folds the rows by hospital for the grouped view and the quote form.
func (h *ClientHandler) Groups(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r)
	if !ok {
		return
	}
	httpx.OK(w, http.StatusOK, services.FoldClientRows(rows))
}

func validateClientRow(row models.ClientRow) validation.Violations {
	v := make(validation.Violations)
	if strings.TrimSpace(row.Hospital) == "" && strings.TrimSpace(row.Company) == "" {
		v["hospital"] = "required"
	}
	for _, c := range row.Contacts {
		validation.Email("contacts.email", c.Email, v)
	}
	return v
}

// clientPayload accepts a single row or the rows of one client with several
// equipments.
type clientPayload []models.ClientRow

func (p *clientPayload) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		var rows []models.ClientRow
		if err := json.Unmarshal(t, &rows); err != nil {
			return err
		}
		*p = rows
		return nil
	}
	var row models.ClientRow
	if err := json.Unmarshal(b, &row); err != nil {
		return err
	}
	*p = clientPayload{row}
	return nil
}

// Create posts a new client built from one or more rows.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rows clientPayload
	if err := httpx.Decode(r, &rows); err != nil || len(rows) == 0 {
		invalidJSON(w, r)
		return
	}
	for _, row := range rows {
		if v := validateClientRow(row); !v.Empty() {
			validationFailed(w, r, v)
			return
		}
	}
	rec := services.CollapseRows(rows)
	rec.ID = ""
	created, err := h.remote.Clients.Create(r.Context(), rec)
	if err != nil {
		writeError(w, r, "clients", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ClientsCacheKey)
	httpx.OK(w, http.StatusCreated, services.ExpandClient(*created))
}

// Update writes an edited row back into its client.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	rowID := string(pathID(r, "rowID"))
	clientID, _ := services.SplitRowID(rowID)

	var row models.ClientRow
	if err := httpx.Decode(r, &row); err != nil {
		invalidJSON(w, r)
		return
	}
	if v := validateClientRow(row); !v.Empty() {
		validationFailed(w, r, v)
		return
	}
	row.ID = rowID
	row.ClientID = clientID

	rec, err := h.remote.Clients.Get(r.Context(), clientID)
	if err != nil {
		writeError(w, r, "clients", err)
		return
	}
	updated, err := h.remote.Clients.Update(r.Context(), clientID, services.ApplyRow(*rec, row))
	if err != nil {
		writeError(w, r, "clients", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ClientsCacheKey)
	httpx.OK(w, http.StatusOK, services.ExpandClient(*updated))
}

// Delete removes the row's equipment, or the whole client when the row has
// no equipment or it was the client's last one.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, equipmentID := services.SplitRowID(string(pathID(r, "rowID")))
	ctx := r.Context()

	if !equipmentID.IsZero() {
		rec, err := h.remote.Clients.Get(ctx, clientID)
		if err != nil {
			writeError(w, r, "clients", err)
			return
		}
		rest, found := services.RemoveEquipment(*rec, equipmentID)
		if !found {
			fail(w, r, http.StatusNotFound, "not_found", nil)
			return
		}
		if len(rest.Equipos) > 0 {
			if _, err := h.remote.Clients.Update(ctx, clientID, rest); err != nil {
				writeError(w, r, "clients", err)
				return
			}
			h.cache(r).Invalidate(ctx, services.ClientsCacheKey)
			httpx.OK(w, http.StatusOK, map[string]bool{"clientDeleted": false})
			return
		}
	}

	if err := h.remote.Clients.Delete(ctx, clientID); err != nil {
		writeError(w, r, "clients", err)
		return
	}
	h.cache(r).Invalidate(ctx, services.ClientsCacheKey)
	httpx.OK(w, http.StatusOK, map[string]bool{"clientDeleted": true})
}

// Import loads a client spreadsheet from the "file" form field.
func (h *ClientHandler) Import(w http.ResponseWriter, r *http.Request) {
	name, data, ok := readUpload(w, r)
	if !ok {
		return
	}
	report, err := h.importer.ImportClients(r.Context(), name, data)
	if errors.Is(err, services.ErrEmptyImport) {
		fail(w, r, http.StatusUnprocessableEntity, "empty_import", report)
		return
	}
	if err != nil {
		writeError(w, r, "import", err)
		return
	}
	h.cache(r).Invalidate(r.Context(), services.ClientsCacheKey)
	httpx.OK(w, http.StatusOK, report)
}
