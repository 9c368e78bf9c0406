package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores layouts in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache parses a redis:// URL and verifies the connection.
func NewRedisCache(ctx context.Context, rawURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, eventID int) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, layoutKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get layout %d: %w", eventID, err)
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, eventID int, data []byte) error {
	if err := c.client.Set(ctx, layoutKey(eventID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set layout %d: %w", eventID, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, eventID int) error {
	if err := c.client.Del(ctx, layoutKey(eventID)).Err(); err != nil {
		return fmt.Errorf("redis delete layout %d: %w", eventID, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
