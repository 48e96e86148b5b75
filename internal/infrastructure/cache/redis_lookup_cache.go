package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLookupCache implements LookupCache using Redis. Suitable for
// distributed deployments where multiple instances share cached lookups.
type RedisLookupCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisLookupCache creates a Redis-backed lookup cache, verifying the
// connection with a short ping.
func NewRedisLookupCache(cfg RedisConfig) (*RedisLookupCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLookupCache{
		client:    client,
		keyPrefix: "registry:lookup:",
	}, nil
}

// NewRedisLookupCacheWithClient creates a cache around an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisLookupCacheWithClient(client *redis.Client, keyPrefix string) *RedisLookupCache {
	if keyPrefix == "" {
		keyPrefix = "registry:lookup:"
	}
	return &RedisLookupCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached payload for key
func (c *RedisLookupCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached lookup: %w", err)
	}
	return value, true, nil
}

// Set stores the payload under key for the given TTL
func (c *RedisLookupCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache lookup: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisLookupCache) Close() error {
	return c.client.Close()
}

var _ LookupCache = (*RedisLookupCache)(nil)
