package services

import (
	"context"
	"log"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
)

// Local storage keys of the catalog mirrors.
const (
	ProductsCacheKey = "productos"
	ClientsCacheKey  = "clientes"
)

// CatalogStore is the per-user local store the catalog is mirrored into.
// DeleteShared drops a key from every user's store.
type CatalogStore interface {
	KeyValueStore
	DeleteShared(ctx context.Context, key string) error
}

// CatalogCache mirrors remote collections into a user's local store. Reads go
// to the remote when asked to refresh or when nothing is cached; a failing
// remote falls back to whatever is cached. Cache writes never fail a call.
type CatalogCache struct {
	remote *remote.Client
	store  CatalogStore
}

func NewCatalogCache(rc *remote.Client, store CatalogStore) *CatalogCache {
	return &CatalogCache{remote: rc, store: store}
}

// Products returns the product catalog.
func (c *CatalogCache) Products(ctx context.Context, refresh bool) ([]models.Product, error) {
	return cached(ctx, c, ProductsCacheKey, refresh, func(ctx context.Context) ([]models.Product, error) {
		recs, err := c.remote.Products.List(ctx)
		if err != nil {
			return nil, err
		}
		return ProductsFromRemote(recs), nil
	})
}

// ClientRows returns the client list expanded into display rows.
func (c *CatalogCache) ClientRows(ctx context.Context, refresh bool) ([]models.ClientRow, error) {
	return cached(ctx, c, ClientsCacheKey, refresh, func(ctx context.Context) ([]models.ClientRow, error) {
		recs, err := c.remote.Clients.List(ctx)
		if err != nil {
			return nil, err
		}
		return ExpandClients(recs), nil
	})
}

// StoreProducts overwrites the cached product list.
func (c *CatalogCache) StoreProducts(ctx context.Context, products []models.Product) {
	c.write(ctx, ProductsCacheKey, products)
}

// Invalidate drops a cached collection from every user's mirror so their
// next read hits the remote.
func (c *CatalogCache) Invalidate(ctx context.Context, key string) {
	if err := c.store.DeleteShared(ctx, key); err != nil {
		log.Printf("[cache] invalidate %s failed: %v", key, err)
	}
}

func (c *CatalogCache) write(ctx context.Context, key string, v any) {
	if err := c.store.Set(ctx, key, v); err != nil {
		log.Printf("[cache] write %s failed: %v", key, err)
	}
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, refresh bool, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var stale []T
	hit, err := c.store.Get(ctx, key, &stale)
	if err != nil {
		log.Printf("[cache] read %s failed: %v", key, err)
		hit = false
	}
	if hit && !refresh && len(stale) > 0 {
		return stale, nil
	}
	fresh, err := fetch(ctx)
	if err != nil {
		if hit && len(stale) > 0 {
			log.Printf("[cache] remote %s failed, serving cached copy: %v", key, err)
			return stale, nil
		}
		return nil, err
	}
	if fresh == nil {
		fresh = []T{}
	}
	c.write(ctx, key, fresh)
	return fresh, nil
}
