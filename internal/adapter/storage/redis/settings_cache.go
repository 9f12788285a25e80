package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vendor-settlement-service/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const settingsKey = "platform:settings"

// SettingsCache is a read-through cache for the platform settings singleton.
// Settings change rarely but are read on every ledger and withdrawal
// operation, so a short TTL keeps the database out of the hot path.
type SettingsCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a new Redis-backed settings cache.
func NewSettingsCache(client *goredis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, ttl: ttl}
}

// Get retrieves the cached settings.
// Returns nil, nil on a cache miss.
func (c *SettingsCache) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	val, err := c.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settings get: %w", err)
	}

	s := &domain.PlatformSettings{}
	if err := json.Unmarshal(val, s); err != nil {
		return nil, fmt.Errorf("unmarshal cached settings: %w", err)
	}
	return s, nil
}

// Set stores the settings with the configured TTL.
func (c *SettingsCache) Set(ctx context.Context, s domain.PlatformSettings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := c.client.Set(ctx, settingsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis settings set: %w", err)
	}
	return nil
}
