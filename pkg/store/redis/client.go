package redis

import (
	"context"
	"fmt"
	"time"

	"fitops/pkg/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient wraps the redis connection used for fleet snapshot caching
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects and verifies the connection before returning.
// The cache is an optimization layer, so callers may choose to run without
// it when the connection fails.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// GetClient retrieves the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// Ping verifies the connection is still live
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
