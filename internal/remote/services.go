package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

// resource is the CRUD shape shared by every entity endpoint.
type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.Do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource[T]) get(ctx context.Context, id models.ID) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id.String()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) create(ctx context.Context, in T) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPost, r.path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) update(ctx context.Context, id models.ID, in T) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id.String()), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) delete(ctx context.Context, id models.ID) error {
	return r.c.Do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id.String()), nil, nil)
}

func (r resource[T]) batch(ctx context.Context, in []T) (*BatchResult, error) {
	var out BatchResult
	if err := r.c.Do(ctx, http.MethodPost, r.path+"/batch", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ClientService struct{ c *Client }

func (s *ClientService) res() resource[ClientRecord] { return resource[ClientRecord]{s.c, "/clientes"} }

func (s *ClientService) List(ctx context.Context) ([]ClientRecord, error) { return s.res().list(ctx) }
func (s *ClientService) Get(ctx context.Context, id models.ID) (*ClientRecord, error) {
	return s.res().get(ctx, id)
}
func (s *ClientService) Create(ctx context.Context, in ClientRecord) (*ClientRecord, error) {
	return s.res().create(ctx, in)
}
func (s *ClientService) Update(ctx context.Context, id models.ID, in ClientRecord) (*ClientRecord, error) {
	return s.res().update(ctx, id, in)
}
func (s *ClientService) Delete(ctx context.Context, id models.ID) error { return s.res().delete(ctx, id) }
func (s *ClientService) BatchCreate(ctx context.Context, in []ClientRecord) (*BatchResult, error) {
	return s.res().batch(ctx, in)
}

type ProductService struct{ c *Client }

func (s *ProductService) res() resource[ProductRecord] {
	return resource[ProductRecord]{s.c, "/productos"}
}

func (s *ProductService) List(ctx context.Context) ([]ProductRecord, error) { return s.res().list(ctx) }
func (s *ProductService) Get(ctx context.Context, id models.ID) (*ProductRecord, error) {
	return s.res().get(ctx, id)
}
func (s *ProductService) Create(ctx context.Context, in ProductRecord) (*ProductRecord, error) {
	return s.res().create(ctx, in)
}
func (s *ProductService) Update(ctx context.Context, id models.ID, in ProductRecord) (*ProductRecord, error) {
	return s.res().update(ctx, id, in)
}
func (s *ProductService) Delete(ctx context.Context, id models.ID) error { return s.res().delete(ctx, id) }
func (s *ProductService) BatchCreate(ctx context.Context, in []ProductRecord) (*BatchResult, error) {
	return s.res().batch(ctx, in)
}

type QuoteService struct{ c *Client }

func (s *QuoteService) res() resource[QuoteRecord] { return resource[QuoteRecord]{s.c, "/cotizaciones"} }

func (s *QuoteService) List(ctx context.Context) ([]QuoteRecord, error) { return s.res().list(ctx) }
func (s *QuoteService) Get(ctx context.Context, id models.ID) (*QuoteRecord, error) {
	return s.res().get(ctx, id)
}
func (s *QuoteService) Create(ctx context.Context, in QuoteRecord) (*QuoteRecord, error) {
	return s.res().create(ctx, in)
}
func (s *QuoteService) Update(ctx context.Context, id models.ID, in QuoteRecord) (*QuoteRecord, error) {
	return s.res().update(ctx, id, in)
}
func (s *QuoteService) Delete(ctx context.Context, id models.ID) error { return s.res().delete(ctx, id) }

type UserService struct{ c *Client }

func (s *UserService) res() resource[UserRecord] { return resource[UserRecord]{s.c, "/usuarios"} }

func (s *UserService) List(ctx context.Context) ([]UserRecord, error) { return s.res().list(ctx) }
func (s *UserService) Get(ctx context.Context, id models.ID) (*UserRecord, error) {
	return s.res().get(ctx, id)
}
func (s *UserService) Create(ctx context.Context, in UserRecord) (*UserRecord, error) {
	return s.res().create(ctx, in)
}
func (s *UserService) Update(ctx context.Context, id models.ID, in UserRecord) (*UserRecord, error) {
	return s.res().update(ctx, id, in)
}
func (s *UserService) Delete(ctx context.Context, id models.ID) error { return s.res().delete(ctx, id) }
