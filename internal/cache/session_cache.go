package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sellerhq/seller_api/internal/models"
)

// SessionCache maps a bearer token to the vendor identity resolved at login.
// The token itself never touches Redis; only its SHA-256 digest does. Entries
// expire with the session TTL so a revoked token ages out on its own.
type SessionCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSessionCache creates a SessionCache with the given entry TTL.
func NewSessionCache(redis *RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{redis: redis, ttl: ttl}
}

func (c *SessionCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("session:%s", hex.EncodeToString(sum[:]))
}

// Set stores the vendor identity for a token.
func (c *SessionCache) Set(ctx context.Context, token string, vendor *models.Vendor) error {
	data, err := json.Marshal(vendor)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.redis.Set(ctx, c.key(token), string(data), c.ttl)
}

// Get resolves a token to its vendor. A miss returns (nil, nil).
func (c *SessionCache) Get(ctx context.Context, token string) (*models.Vendor, error) {
	data, err := c.redis.Get(ctx, c.key(token))
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	var vendor models.Vendor
	if err := json.Unmarshal([]byte(data), &vendor); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &vendor, nil
}

// Delete drops a session, e.g. on logout.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.redis.Delete(ctx, c.key(token))
}
