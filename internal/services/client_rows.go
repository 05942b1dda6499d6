package services

import (
	"strconv"
	"strings"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
)

// ExpandClient emits one display row per equipment record, or a single row
// with empty equipment when the client has none. All rows share the contacts.
func ExpandClient(c remote.ClientRecord) []models.ClientRow {
	contacts := ContactsFromRemote(c.Encargados)
	base := models.ClientRow{
		ID:         c.ID.String(),
		ClientID:   c.ID,
		Company:    strings.TrimSpace(c.EmpresaResponsable),
		Dependency: strings.TrimSpace(c.Dependencia),
		Hospital:   strings.TrimSpace(c.NombreHospital),
		State:      c.Estado,
		City:       c.Ciudad,
		PostalCode: c.CodigoPostal,
		Address:    c.Direccion,
		Contacts:   contacts,
	}
	if len(c.Equipos) == 0 {
		return []models.ClientRow{base}
	}
	rows := make([]models.ClientRow, 0, len(c.Equipos))
	for i, e := range c.Equipos {
		row := base
		row.Contacts = append([]models.Encargado(nil), contacts...)
		row.Equipment = EquipmentFromRemote(e)
		row.ID = RowID(c.ID, equipmentRef(e.ID, i))
		rows = append(rows, row)
	}
	return rows
}

// ExpandClients flattens a client list.
func ExpandClients(in []remote.ClientRecord) []models.ClientRow {
	var out []models.ClientRow
	for _, c := range in {
		out = append(out, ExpandClient(c)...)
	}
	return out
}

// RowID composes a display row id.
func RowID(clientID, equipmentID models.ID) string {
	if equipmentID.IsZero() {
		return clientID.String()
	}
	return clientID.String() + "-" + equipmentID.String()
}

// slotPrefix marks an equipment reference by position, used for equipment
// the remote service stored without an id.
const slotPrefix = "~"

func equipmentRef(id models.ID, position int) models.ID {
	if !id.IsZero() {
		return id
	}
	return models.ID(slotPrefix + strconv.Itoa(position))
}

// findEquipment resolves an equipment reference (remote id or position slot)
// to its index in equipos, or -1.
func findEquipment(equipos []remote.EquipmentRecord, ref models.ID) int {
	if ref.IsZero() {
		return -1
	}
	if pos, ok := strings.CutPrefix(ref.String(), slotPrefix); ok {
		i, err := strconv.Atoi(pos)
		if err != nil || i < 0 || i >= len(equipos) || !equipos[i].ID.IsZero() {
			return -1
		}
		return i
	}
	for i := range equipos {
		if equipos[i].ID == ref {
			return i
		}
	}
	return -1
}

// SplitRowID recovers the client and equipment ids from a row id.
// Only the first hyphen separates them.
func SplitRowID(rowID string) (clientID, equipmentID models.ID) {
	c, e, _ := strings.Cut(rowID, "-")
	return models.ID(c), models.ID(e)
}

// FoldClientRows groups rows by hospital, then company, then row id. Groups
// and every list inside them keep first-seen order.
func FoldClientRows(rows []models.ClientRow) []models.ClientGroup {
	var groups []*models.ClientGroup
	index := map[string]*models.ClientGroup{}
	seenDeps := map[string]map[string]bool{}
	seenCompanies := map[string]map[string]bool{}
	seenContacts := map[string]map[string]bool{}

	for _, row := range rows {
		key := groupKey(row)
		g, ok := index[key]
		if !ok {
			g = &models.ClientGroup{
				Key:          key,
				Hospital:     firstNonEmpty(row.Hospital, row.Company),
				Dependencies: []string{},
				Companies:    []string{},
				Equipment:    []models.GroupEquipment{},
				Contacts:     []models.Encargado{},
			}
			index[key] = g
			groups = append(groups, g)
			seenDeps[key] = map[string]bool{}
			seenCompanies[key] = map[string]bool{}
			seenContacts[key] = map[string]bool{}
		}
		g.RowIDs = append(g.RowIDs, row.ID)
		if d := strings.TrimSpace(row.Dependency); d != "" && !seenDeps[key][d] {
			seenDeps[key][d] = true
			g.Dependencies = append(g.Dependencies, d)
		}
		if c := strings.TrimSpace(row.Company); c != "" && !seenCompanies[key][c] {
			seenCompanies[key][c] = true
			g.Companies = append(g.Companies, c)
		}
		if row.HasEquipment() {
			g.Equipment = append(g.Equipment, models.GroupEquipment{RowID: row.ID, Equipment: row.Equipment})
		}
		for _, ct := range row.Contacts {
			k := ContactKey(ct)
			if seenContacts[key][k] {
				continue
			}
			seenContacts[key][k] = true
			g.Contacts = append(g.Contacts, ct)
		}
	}

	out := make([]models.ClientGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

func groupKey(row models.ClientRow) string {
	if h := strings.ToLower(strings.TrimSpace(row.Hospital)); h != "" {
		return h
	}
	if c := strings.ToLower(strings.TrimSpace(row.Company)); c != "" {
		return c
	}
	return "id-" + row.ID
}

// ContactKey identifies a contact for deduplication: its id, or the
// lowercase name and email plus the phone.
func ContactKey(c models.Encargado) string {
	if id := strings.TrimSpace(c.ID.String()); id != "" {
		return "id:" + id
	}
	return strings.ToLower(strings.TrimSpace(c.Name)) + "|" +
		strings.ToLower(strings.TrimSpace(c.Email)) + "|" +
		strings.TrimSpace(c.Phone)
}

// DedupContacts keeps the first occurrence of each contact.
func DedupContacts(in []models.Encargado) []models.Encargado {
	seen := map[string]bool{}
	out := make([]models.Encargado, 0, len(in))
	for _, c := range in {
		k := ContactKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// CollapseRows rebuilds one remote client from its display rows. Client-level
// fields come from the first row.
func CollapseRows(rows []models.ClientRow) remote.ClientRecord {
	if len(rows) == 0 {
		return remote.ClientRecord{}
	}
	first := rows[0]
	rec := ClientRowToRemote(first)
	rec.Equipos = nil
	var contacts []models.Encargado
	for _, r := range rows {
		if r.HasEquipment() {
			rec.Equipos = append(rec.Equipos, EquipmentToRemote(r.Equipment))
		}
		contacts = append(contacts, r.Contacts...)
	}
	rec.Encargados = ContactsToRemote(DedupContacts(contacts))
	return rec
}

// ClientRowToRemote maps the client-level fields of a row plus its equipment.
func ClientRowToRemote(row models.ClientRow) remote.ClientRecord {
	rec := remote.ClientRecord{
		ID:                 row.ClientID,
		EmpresaResponsable: row.Company,
		Dependencia:        row.Dependency,
		NombreHospital:     row.Hospital,
		Estado:             row.State,
		Ciudad:             row.City,
		CodigoPostal:       row.PostalCode,
		Direccion:          row.Address,
		Encargados:         ContactsToRemote(row.Contacts),
	}
	if row.HasEquipment() {
		rec.Equipos = []remote.EquipmentRecord{EquipmentToRemote(row.Equipment)}
	}
	return rec
}

// ApplyRow writes an edited row back into its remote client: client-level
// fields are replaced and the row's equipment is replaced (or appended when new).
func ApplyRow(rec remote.ClientRecord, row models.ClientRow) remote.ClientRecord {
	_, equipmentID := SplitRowID(row.ID)
	rec.EmpresaResponsable = row.Company
	rec.Dependencia = row.Dependency
	rec.NombreHospital = row.Hospital
	rec.Estado = row.State
	rec.Ciudad = row.City
	rec.CodigoPostal = row.PostalCode
	rec.Direccion = row.Address
	if row.Contacts != nil {
		rec.Encargados = ContactsToRemote(DedupContacts(row.Contacts))
	}
	if !row.HasEquipment() {
		return rec
	}
	eq := EquipmentToRemote(row.Equipment)
	equipos := append([]remote.EquipmentRecord(nil), rec.Equipos...)
	if i := findEquipment(equipos, equipmentID); i >= 0 {
		eq.ID = equipos[i].ID
		equipos[i] = eq
		rec.Equipos = equipos
		return rec
	}
	if !equipmentID.IsZero() && !strings.HasPrefix(equipmentID.String(), slotPrefix) {
		eq.ID = equipmentID
	}
	rec.Equipos = append(equipos, eq)
	return rec
}

// RemoveEquipment drops one equipment record from a client. It reports false
// when the reference does not resolve.
func RemoveEquipment(rec remote.ClientRecord, equipmentID models.ID) (remote.ClientRecord, bool) {
	i := findEquipment(rec.Equipos, equipmentID)
	if i < 0 {
		return rec, false
	}
	out := make([]remote.EquipmentRecord, 0, len(rec.Equipos)-1)
	out = append(out, rec.Equipos[:i]...)
	rec.Equipos = append(out, rec.Equipos[i+1:]...)
	return rec, true
}

func EquipmentFromRemote(e remote.EquipmentRecord) models.Equipment {
	return models.Equipment{
		ID:              e.ID,
		Name:            strings.TrimSpace(e.Nombre),
		Brand:           strings.TrimSpace(e.Marca),
		Model:           strings.TrimSpace(e.Modelo),
		Serial:          strings.TrimSpace(e.NumeroSerie),
		InstallDate:     e.FechaInstalacion,
		LastMaintenance: e.UltimoMantenimiento,
	}
}

func EquipmentToRemote(e models.Equipment) remote.EquipmentRecord {
	return remote.EquipmentRecord{
		ID:                  e.ID,
		Nombre:              e.Name,
		Marca:               e.Brand,
		Modelo:              e.Model,
		NumeroSerie:         e.Serial,
		FechaInstalacion:    e.InstallDate,
		UltimoMantenimiento: e.LastMaintenance,
	}
}

func ContactsFromRemote(in []remote.ContactRecord) []models.Encargado {
	out := make([]models.Encargado, 0, len(in))
	for _, c := range in {
		out = append(out, models.Encargado{
			ID:    c.ID,
			Name:  strings.TrimSpace(c.Nombre),
			Role:  strings.TrimSpace(c.Cargo),
			Phone: strings.TrimSpace(c.Telefono),
			Email: strings.TrimSpace(c.Email),
		})
	}
	return DedupContacts(out)
}

func ContactsToRemote(in []models.Encargado) []remote.ContactRecord {
	out := make([]remote.ContactRecord, 0, len(in))
	for _, c := range in {
		out = append(out, remote.ContactRecord{ID: c.ID, Nombre: c.Name, Cargo: c.Role, Telefono: c.Phone, Email: c.Email})
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
