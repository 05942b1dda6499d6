package models

// Product is the catalog record used by the rest of the application.
type Product struct {
	ID          ID                `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Model       string            `json:"model,omitempty"`
	Category    string            `json:"category,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	BasePrice   float64           `json:"basePrice"`
	Supplier    string            `json:"supplier,omitempty"`
	Image       string            `json:"image,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Code is the value quote line items use to reference the product.
// Products that were never persisted fall back to their SKU.
func (p Product) Code() string {
	if !p.ID.IsZero() {
		return p.ID.String()
	}
	return p.SKU
}

// DisplayName is the description, or "brand model" when there is none.
func (p Product) DisplayName() string {
	if p.Description != "" {
		return p.Description
	}
	if p.Name != "" {
		return p.Name
	}
	return joinNonEmpty(p.Brand, p.Model)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
