package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

// ErrIndexOutOfRange is returned for line-item positions that do not exist.
var ErrIndexOutOfRange = errors.New("line item index out of range")

// QuoteDraft is the working copy of an in-progress quote form.
// Line item codes are unique within a draft.
type QuoteDraft struct {
	CompanyID     string             `json:"companyId"`
	ClientID      string             `json:"clientId"`
	ClientName    string             `json:"clientName"`
	ContactName   string             `json:"contactName"`
	ClientEmail   string             `json:"clientEmail"`
	ClientPhone   string             `json:"clientPhone"`
	ClientAddress string             `json:"clientAddress"`
	Items         []models.QuoteItem `json:"products"`
	Terms         string             `json:"terms"`
}

// ItemPatch names the fields of a line item to replace. Nil fields are left
// alone. The code of a line is fixed once it is added.
type ItemPatch struct {
	Name      *string  `json:"name,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	BasePrice *float64 `json:"basePrice,omitempty"`
}

// FieldsPatch replaces header fields of the draft. Nil fields are left alone.
type FieldsPatch struct {
	CompanyID     *string `json:"companyId,omitempty"`
	ClientName    *string `json:"clientName,omitempty"`
	ContactName   *string `json:"contactName,omitempty"`
	ClientEmail   *string `json:"clientEmail,omitempty"`
	ClientPhone   *string `json:"clientPhone,omitempty"`
	ClientAddress *string `json:"clientAddress,omitempty"`
	Terms         *string `json:"terms,omitempty"`
}

// NewQuoteDraft returns an empty draft.
func NewQuoteDraft() *QuoteDraft {
	return &QuoteDraft{Items: []models.QuoteItem{}}
}

// nextItemID is a millisecond timestamp bumped past every existing id.
func (d *QuoteDraft) nextItemID() int64 {
	id := time.Now().UnixMilli()
	for _, it := range d.Items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

// AddOrIncrement adds one unit of p. When a line with the same code exists
// its quantity grows by one and its price is refreshed from p; otherwise a
// new line is appended. It returns the index of the affected line.
func (d *QuoteDraft) AddOrIncrement(p models.Product) int {
	code := p.Code()
	price := Round2(p.BasePrice)
	for i := range d.Items {
		if d.Items[i].Code == code {
			d.Items[i].Quantity++
			d.Items[i].BasePrice = price
			return i
		}
	}
	d.Items = append(d.Items, models.QuoteItem{
		ID:        d.nextItemID(),
		Code:      code,
		Name:      p.DisplayName(),
		Quantity:  1,
		BasePrice: price,
	})
	return len(d.Items) - 1
}

// AddManual appends a blank line for free-text entry.
func (d *QuoteDraft) AddManual() int {
	d.Items = append(d.Items, models.QuoteItem{ID: d.nextItemID(), Quantity: 1})
	return len(d.Items) - 1
}

// Update replaces the patched fields of the line at index.
func (d *QuoteDraft) Update(index int, patch ItemPatch) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("update %d: %w", index, ErrIndexOutOfRange)
	}
	it := &d.Items[index]
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.BasePrice != nil {
		it.BasePrice = *patch.BasePrice
	}
	return nil
}

// Remove deletes the line at index.
func (d *QuoteDraft) Remove(index int) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("remove %d: %w", index, ErrIndexOutOfRange)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

// Total is recomputed from the lines on every call.
func (d *QuoteDraft) Total() float64 {
	return models.ComputeTotal(d.Items)
}

// SellingCompany is the company picked in the draft header.
func (d *QuoteDraft) SellingCompany() string { return d.CompanyID }

// ApplyFields replaces the patched header fields.
func (d *QuoteDraft) ApplyFields(p FieldsPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&d.CompanyID, p.CompanyID)
	set(&d.ClientName, p.ClientName)
	set(&d.ContactName, p.ContactName)
	set(&d.ClientEmail, p.ClientEmail)
	set(&d.ClientPhone, p.ClientPhone)
	set(&d.ClientAddress, p.ClientAddress)
	set(&d.Terms, p.Terms)
}

// SelectClient snapshots a client group into the draft and preselects its
// first contact.
func (d *QuoteDraft) SelectClient(clientID string, g models.ClientGroup, address string) {
	d.ClientID = clientID
	d.ClientName = g.Hospital
	d.ClientAddress = address
	d.ContactName, d.ClientEmail, d.ClientPhone = "", "", ""
	if len(g.Contacts) > 0 {
		d.SelectContact(g.Contacts[0])
	}
}

// SelectContact copies a contact's fields into the draft.
func (d *QuoteDraft) SelectContact(c models.Encargado) {
	d.ContactName = c.Name
	d.ClientEmail = c.Email
	d.ClientPhone = c.Phone
}

// FormatAddress joins the non-empty address parts of a row.
func FormatAddress(r models.ClientRow) string {
	var parts []string
	for _, p := range []string{r.Address, r.City, r.State} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	out := strings.Join(parts, ", ")
	if cp := strings.TrimSpace(r.PostalCode); cp != "" {
		if out != "" {
			out += " "
		}
		out += "C.P. " + cp
	}
	return out
}
