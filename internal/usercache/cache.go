// Package usercache caches user profiles in Redis so the hot path does not
// hit the storage backend on every incoming message.
package usercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/granabot/grana-bot/internal/domain"
)

// Cache provides Redis-backed caching for user profiles, keyed by telegram id.
type Cache struct {
	client redis.UniversalClient
}

// NewCache constructs a user cache backed by the provided Redis client.
func NewCache(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Get fetches a cached user profile if it exists. A nil cache or a cache miss
// both yield (nil, nil).
func (c *Cache) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, cacheKey(telegramID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}

	return &u, nil
}

// Set stores the user profile in cache for the provided TTL.
func (c *Cache) Set(ctx context.Context, telegramID int64, u *domain.User, ttl time.Duration) error {
	if c == nil || c.client == nil || u == nil {
		return nil
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(telegramID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set cached user: %w", err)
	}

	return nil
}

// Invalidate removes the cached profile entry if it exists.
func (c *Cache) Invalidate(ctx context.Context, telegramID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.client.Del(ctx, cacheKey(telegramID)).Err(); err != nil {
		return fmt.Errorf("delete cached user: %w", err)
	}

	return nil
}

func cacheKey(telegramID int64) string {
	return fmt.Sprintf("user:profile:%d", telegramID)
}
