package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/storefront-go/storefront/internal/cache"
	"github.com/storefront-go/storefront/internal/models"
)

// cachedCatalogRepository decorates a CatalogRepository with a shared
// cache so a restarted instance can warm its catalog without another
// upstream round trip. Cache failures degrade to the upstream fetch.
type cachedCatalogRepository struct {
	next  CatalogRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedCatalogRepo(next CatalogRepository, c cache.Cache, ttl time.Duration) CatalogRepository {
	return &cachedCatalogRepository{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

func (r *cachedCatalogRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {

	key := cache.Key(cache.CatalogKeyPrefix, "all")

	var cached []models.Product

	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Catalog cache lookup failed", slog.String("error", err.Error()))
	}

	if hit {
		return cached, nil
	}

	products, err := r.next.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, products, r.ttl); err != nil {
		slog.Warn("Catalog cache write failed", slog.String("error", err.Error()))
	}

	return products, nil
}
