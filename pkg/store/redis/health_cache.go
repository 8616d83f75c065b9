package redis

import (
	"context"
	"encoding/json"
	"time"

	"fitops/internal/model"

	"github.com/go-redis/redis/v8"
)

const snapshotKey = "fitops:fleet:snapshot"

// HealthCache keeps the most recent fleet snapshot with a short TTL so
// repeated dashboard polls do not re-probe the whole fleet.
type HealthCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHealthCache creates a snapshot cache with the given TTL
func NewHealthCache(client *redis.Client, ttl time.Duration) *HealthCache {
	return &HealthCache{client: client, ttl: ttl}
}

// Store caches a fleet snapshot
func (c *HealthCache) Store(ctx context.Context, snapshot *model.FleetHealthSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, raw, c.ttl).Err()
}

// Load returns the cached snapshot, or nil when absent or expired
func (c *HealthCache) Load(ctx context.Context) (*model.FleetHealthSnapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot model.FleetHealthSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
