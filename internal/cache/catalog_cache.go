package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

const catalogKey = "catalog:categories"

// catalogTTL is deliberately generous; the sync worker refreshes well before
// expiry and a stale category tree is harmless.
const catalogTTL = time.Hour

// CatalogCache keeps the store's category tree in Redis so the product form
// doesn't hit the store API on every page load.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a CatalogCache.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

// SetCategories replaces the cached category tree.
func (c *CatalogCache) SetCategories(ctx context.Context, categories []woocommerce.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	return c.redis.Set(ctx, catalogKey, string(data), catalogTTL)
}

// GetCategories returns the cached category tree, or (nil, nil) on a miss.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]woocommerce.Category, error) {
	data, err := c.redis.Get(ctx, catalogKey)
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	var categories []woocommerce.Category
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return categories, nil
}
