package models

import (
	"strings"
	"time"
)

// QuoteStatus is the closed set of quote states.
type QuoteStatus string

const (
	StatusPendiente  QuoteStatus = "pendiente"
	StatusConfirmada QuoteStatus = "confirmada"
	StatusRechazada  QuoteStatus = "rechazada"
)

// ClassifyStatus maps free-text legacy values onto a QuoteStatus.
func ClassifyStatus(raw string) QuoteStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "confirm"), strings.Contains(s, "aprob"), strings.Contains(s, "acept"):
		return StatusConfirmada
	case strings.Contains(s, "rechaz"), strings.Contains(s, "cancel"):
		return StatusRechazada
	default:
		return StatusPendiente
	}
}

// Valid reports whether s is one of the known statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case StatusPendiente, StatusConfirmada, StatusRechazada:
		return true
	}
	return false
}

// QuoteItem is a line item. Name and BasePrice are snapshots taken when the
// product was added.
type QuoteItem struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	BasePrice float64 `json:"basePrice"`
}

// Subtotal is quantity times unit price, unrounded.
func (i QuoteItem) Subtotal() float64 {
	return float64(i.Quantity) * i.BasePrice
}

// Quote is a cotización. Client fields are copied at creation time.
type Quote struct {
	ID            ID          `json:"id,omitempty"`
	Folio         string      `json:"folio"`
	Status        QuoteStatus `json:"status"`
	SellerID      ID          `json:"sellerId,omitempty"`
	SellerName    string      `json:"sellerName"`
	SellerEmail   string      `json:"sellerEmail"`
	CompanyID     string      `json:"companyId"`
	ClientID      string      `json:"clientId"`
	ClientName    string      `json:"clientName"`
	ContactName   string      `json:"contactName,omitempty"`
	ClientEmail   string      `json:"clientEmail,omitempty"`
	ClientPhone   string      `json:"clientPhone,omitempty"`
	ClientAddress string      `json:"clientAddress,omitempty"`
	Items         []QuoteItem `json:"products"`
	Total         float64     `json:"total"`
	Terms         string      `json:"terms,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ComputeTotal sums the line items without per-item rounding.
func ComputeTotal(items []QuoteItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// SellingCompany is the company the quote is issued through.
func (q Quote) SellingCompany() string { return q.CompanyID }
