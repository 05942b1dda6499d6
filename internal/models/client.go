package models

// Equipment is one installed device at a client site.
type Equipment struct {
	ID              ID     `json:"id,omitempty"`
	Name            string `json:"name"`
	Brand           string `json:"brand,omitempty"`
	Model           string `json:"model,omitempty"`
	Serial          string `json:"serial,omitempty"`
	InstallDate     string `json:"installDate,omitempty"`
	LastMaintenance string `json:"lastMaintenance,omitempty"`
}

// Encargado is a contact person at a client.
type Encargado struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ClientRow is one display row: a client with at most one piece of equipment.
// ID is the client id, or "{clientID}-{equipmentID}" when the row carries equipment.
type ClientRow struct {
	ID         string      `json:"id"`
	ClientID   ID          `json:"clientId"`
	Company    string      `json:"company"`
	Dependency string      `json:"dependency,omitempty"`
	Hospital   string      `json:"hospital,omitempty"`
	State      string      `json:"state,omitempty"`
	City       string      `json:"city,omitempty"`
	PostalCode string      `json:"postalCode,omitempty"`
	Address    string      `json:"address,omitempty"`
	Equipment  Equipment   `json:"equipment"`
	Contacts   []Encargado `json:"contacts,omitempty"`
}

// HasEquipment reports whether the row carries an equipment record.
func (r ClientRow) HasEquipment() bool {
	return r.Equipment != (Equipment{})
}

// GroupEquipment is an equipment entry tagged with the row it came from.
type GroupEquipment struct {
	RowID string `json:"rowId"`
	Equipment
}

// ClientGroup folds the rows sharing a hospital (or company) name.
type ClientGroup struct {
	Key          string           `json:"key"`
	Hospital     string           `json:"hospital"`
	Dependencies []string         `json:"dependencies"`
	Companies    []string         `json:"companies"`
	Equipment    []GroupEquipment `json:"equipment"`
	Contacts     []Encargado      `json:"contacts"`
	RowIDs       []string         `json:"rowIds"`
}
