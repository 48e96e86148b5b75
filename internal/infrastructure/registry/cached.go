package registry

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/partnerbridge/backend/internal/domain/registry"
	"github.com/partnerbridge/backend/internal/infrastructure/cache"
)

// CachedClient decorates a registry client with a TTL cache. Only successful
// lookups are cached; "no data" and transport failures always go back to the
// upstream. Cache errors degrade to a plain upstream call.
type CachedClient struct {
	inner  registry.Client
	cache  cache.LookupCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClient wraps inner with the given cache and TTL.
func NewCachedClient(inner registry.Client, lookupCache cache.LookupCache, ttl time.Duration, logger *zap.Logger) *CachedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{
		inner:  inner,
		cache:  lookupCache,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchRUC returns a cached SUNAT record when available.
func (c *CachedClient) FetchRUC(ctx context.Context, number string) (*registry.SunatDTO, error) {
	key := string(registry.DocumentKindRUC) + ":" + number

	var cached registry.SunatDTO
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	dto, err := c.inner.FetchRUC(ctx, number)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, dto)
	return dto, nil
}

// FetchDNI returns a cached RENIEC record when available.
func (c *CachedClient) FetchDNI(ctx context.Context, number string) (*registry.ReniecDTO, error) {
	key := string(registry.DocumentKindDNI) + ":" + number

	var cached registry.ReniecDTO
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	dto, err := c.inner.FetchDNI(ctx, number)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, dto)
	return dto, nil
}

func (c *CachedClient) load(ctx context.Context, key string, out any) bool {
	data, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("lookup cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedClient) store(ctx context.Context, key string, dto any) {
	data, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
}

var _ registry.Client = (*CachedClient)(nil)
