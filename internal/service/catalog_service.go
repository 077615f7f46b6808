package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/cache"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// CatalogService serves the store's category tree, backed by the Redis
// catalog cache so the product form doesn't round-trip to the store on every
// load.
type CatalogService struct {
	store        *woocommerce.Client
	catalog      *cache.CatalogCache
	serviceToken string
}

// NewCatalogService constructs a CatalogService. serviceToken is a read-only
// store credential used for cache refreshes that run outside any vendor
// session; it may be empty, in which case only on-demand fills happen.
func NewCatalogService(store *woocommerce.Client, catalog *cache.CatalogCache, serviceToken string) *CatalogService {
	return &CatalogService{store: store, catalog: catalog, serviceToken: serviceToken}
}

// Categories returns the category tree, serving from cache when possible and
// filling the cache on a miss using the caller's credential.
func (s *CatalogService) Categories(ctx context.Context, token string) ([]woocommerce.Category, error) {
	cached, err := s.catalog.GetCategories(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	categories, err := s.store.ListCategories(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SetCategories(ctx, categories); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
	return categories, nil
}

// Refresh re-fetches the category tree with the service credential. Used by
// the background sync worker.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if s.serviceToken == "" {
		return nil
	}
	categories, err := s.store.ListCategories(ctx, s.serviceToken)
	if err != nil {
		return err
	}
	return s.catalog.SetCategories(ctx, categories)
}
