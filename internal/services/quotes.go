package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/validation"
)

// BuildQuote validates a draft and turns it into a quote owned by seller.
// Vendedores with an assigned company always sell through it.
func BuildQuote(seller models.User, d *QuoteDraft, now time.Time) (models.Quote, validation.Violations) {
	v := validation.Violations{}

	companyID := strings.TrimSpace(d.CompanyID)
	if forced, ok := seller.AssignedCompany(); ok {
		companyID = forced
	}
	validation.Required("companyId", companyID, v)
	if strings.TrimSpace(d.ClientID) == "" && strings.TrimSpace(d.ClientName) == "" {
		v["clientId"] = "required"
	}
	validation.Email("clientEmail", d.ClientEmail, v)
	if len(d.Items) == 0 {
		v["products"] = "required"
	}
	items := make([]models.QuoteItem, len(d.Items))
	for i, it := range d.Items {
		prefix := "products[" + strconv.Itoa(i) + "]."
		validation.Required(prefix+"name", it.Name, v)
		validation.MinInt(prefix+"quantity", it.Quantity, 1, v)
		validation.NonNegativeFloat(prefix+"basePrice", it.BasePrice, v)
		items[i] = it
	}
	uniqueCodes(d.Items, v)
	if !v.Empty() {
		return models.Quote{}, v
	}

	q := models.Quote{
		Folio:         NewFolio(),
		Status:        models.StatusPendiente,
		SellerID:      seller.ID,
		SellerName:    seller.Name,
		SellerEmail:   seller.Email,
		CompanyID:     companyID,
		ClientID:      strings.TrimSpace(d.ClientID),
		ClientName:    strings.TrimSpace(d.ClientName),
		ContactName:   d.ContactName,
		ClientEmail:   d.ClientEmail,
		ClientPhone:   d.ClientPhone,
		ClientAddress: d.ClientAddress,
		Items:         items,
		Terms:         d.Terms,
		CreatedAt:     now,
	}
	q.Total = models.ComputeTotal(q.Items)
	return q, nil
}

// uniqueCodes flags every line whose catalog code repeats an earlier line.
// Manual lines carry no code and never collide.
func uniqueCodes(items []models.QuoteItem, v validation.Violations) {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		code := strings.TrimSpace(it.Code)
		if code == "" {
			continue
		}
		if seen[code] {
			v["products["+strconv.Itoa(i)+"].code"] = "duplicate_code"
			continue
		}
		seen[code] = true
	}
}

// Summary feeds the home dashboard.
type Summary struct {
	Total           int            `json:"total"`
	Pendientes      int            `json:"pendientes"`
	Confirmadas     int            `json:"confirmadas"`
	Rechazadas      int            `json:"rechazadas"`
	ConfirmedAmount float64        `json:"confirmedAmount"`
	Recent          []models.Quote `json:"recent"`
}

// Summarize counts quotes per status and keeps the five most recent.
func Summarize(quotes []models.Quote) Summary {
	s := Summary{Total: len(quotes)}
	var confirmed float64
	for _, q := range quotes {
		switch q.Status {
		case models.StatusConfirmada:
			s.Confirmadas++
			confirmed += q.Total
		case models.StatusRechazada:
			s.Rechazadas++
		default:
			s.Pendientes++
		}
	}
	s.ConfirmedAmount = Round2(confirmed)

	recent := append([]models.Quote(nil), quotes...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	s.Recent = recent
	return s
}

// VisibleQuotes filters what a user may list: vendedores only see their own quotes.
func VisibleQuotes(u models.User, quotes []models.Quote) []models.Quote {
	if u.Role != models.RoleVendedor {
		return quotes
	}
	out := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		if OwnsQuote(u, q) {
			out = append(out, q)
		}
	}
	return out
}

// OwnsQuote matches by seller id, falling back to the seller email for
// quotes created before ids were recorded.
func OwnsQuote(u models.User, q models.Quote) bool {
	if !q.SellerID.IsZero() {
		return q.SellerID == u.ID
	}
	return q.SellerEmail != "" && strings.EqualFold(q.SellerEmail, u.Email)
}

// QuoteFromRemote translates a record, classifying its free-text status once.
func QuoteFromRemote(r remote.QuoteRecord) models.Quote {
	q := models.Quote{
		ID:            r.ID,
		Folio:         r.Folio,
		Status:        models.ClassifyStatus(r.Estado),
		SellerID:      r.VendedorID,
		SellerName:    r.Vendedor,
		SellerEmail:   r.VendedorEmail,
		CompanyID:     r.EmpresaID.String(),
		ClientID:      r.ClienteID.String(),
		ClientName:    r.ClienteNombre,
		ContactName:   r.Contacto,
		ClientEmail:   r.ClienteEmail,
		ClientPhone:   r.ClienteTelefono,
		ClientAddress: r.ClienteDireccion,
		Items:         make([]models.QuoteItem, 0, len(r.Productos)),
		Terms:         r.Terminos,
	}
	for _, it := range r.Productos {
		q.Items = append(q.Items, models.QuoteItem{
			ID:        it.ID,
			Code:      it.Code,
			Name:      it.Name,
			Quantity:  it.Quantity,
			BasePrice: it.BasePrice,
		})
	}
	// the stored total is informational; lines are authoritative
	q.Total = models.ComputeTotal(q.Items)
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		q.CreatedAt = t
	}
	return q
}

// QuoteToRemote translates a quote for create/update calls.
func QuoteToRemote(q models.Quote) remote.QuoteRecord {
	r := remote.QuoteRecord{
		ID:               q.ID,
		Folio:            q.Folio,
		Estado:           string(q.Status),
		VendedorID:       q.SellerID,
		Vendedor:         q.SellerName,
		VendedorEmail:    q.SellerEmail,
		EmpresaID:        models.ID(q.CompanyID),
		ClienteID:        models.ID(q.ClientID),
		ClienteNombre:    q.ClientName,
		Contacto:         q.ContactName,
		ClienteEmail:     q.ClientEmail,
		ClienteTelefono:  q.ClientPhone,
		ClienteDireccion: q.ClientAddress,
		Productos:        make([]remote.QuoteItemRecord, 0, len(q.Items)),
		Total:            Round2(q.Total),
		Terminos:         q.Terms,
	}
	if !q.CreatedAt.IsZero() {
		r.CreatedAt = q.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, it := range q.Items {
		r.Productos = append(r.Productos, remote.QuoteItemRecord{
			ID:        it.ID,
			Code:      it.Code,
			Name:      it.Name,
			Quantity:  it.Quantity,
			BasePrice: it.BasePrice,
		})
	}
	return r
}

// QuoteService wraps the remote quote endpoints with the ownership rules.
type QuoteService struct {
	remote *remote.Client
}

func NewQuoteService(rc *remote.Client) *QuoteService {
	return &QuoteService{remote: rc}
}

// List returns the quotes visible to u.
func (s *QuoteService) List(ctx context.Context, u models.User) ([]models.Quote, error) {
	recs, err := s.remote.Quotes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Quote, 0, len(recs))
	for _, r := range recs {
		out = append(out, QuoteFromRemote(r))
	}
	return VisibleQuotes(u, out), nil
}

func (s *QuoteService) Get(ctx context.Context, id models.ID) (models.Quote, error) {
	rec, err := s.remote.Quotes.Get(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	return QuoteFromRemote(*rec), nil
}

// Create validates the draft and stores the quote remotely.
func (s *QuoteService) Create(ctx context.Context, seller models.User, d *QuoteDraft) (models.Quote, validation.Violations, error) {
	q, v := BuildQuote(seller, d, time.Now())
	if v != nil {
		return models.Quote{}, v, nil
	}
	rec, err := s.remote.Quotes.Create(ctx, QuoteToRemote(q))
	if err != nil {
		return models.Quote{}, nil, fmt.Errorf("create quote %s: %w", q.Folio, err)
	}
	return QuoteFromRemote(*rec), nil, nil
}

// QuoteUpdate carries the editable fields of an existing quote.
type QuoteUpdate struct {
	Status *string             `json:"status,omitempty"`
	Items  *[]models.QuoteItem `json:"products,omitempty"`
	Terms  *string             `json:"terms,omitempty"`
}

// Update applies u to the stored quote. Status text is classified before it is stored.
func (s *QuoteService) Update(ctx context.Context, id models.ID, u QuoteUpdate) (models.Quote, validation.Violations, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return models.Quote{}, nil, err
	}
	v := validation.Violations{}
	if u.Status != nil {
		q.Status = models.ClassifyStatus(*u.Status)
	}
	if u.Terms != nil {
		q.Terms = *u.Terms
	}
	if u.Items != nil {
		if len(*u.Items) == 0 {
			v["products"] = "required"
		}
		for i, it := range *u.Items {
			prefix := "products[" + strconv.Itoa(i) + "]."
			validation.MinInt(prefix+"quantity", it.Quantity, 1, v)
			validation.NonNegativeFloat(prefix+"basePrice", it.BasePrice, v)
		}
		uniqueCodes(*u.Items, v)
		q.Items = *u.Items
	}
	if !v.Empty() {
		return models.Quote{}, v, nil
	}
	q.Total = models.ComputeTotal(q.Items)
	rec, err := s.remote.Quotes.Update(ctx, id, QuoteToRemote(q))
	if err != nil {
		return models.Quote{}, nil, err
	}
	return QuoteFromRemote(*rec), nil, nil
}

func (s *QuoteService) Delete(ctx context.Context, id models.ID) error {
	return s.remote.Quotes.Delete(ctx, id)
}
