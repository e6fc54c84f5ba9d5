package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "suggest:"

// cacheStore is the subset of redis.Cmdable the cache needs.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedProvider memoises hint results in Redis. Cache errors never fail a lookup.
type CachedProvider struct {
	next   Provider
	rdb    cacheStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProvider(next Provider, rdb cacheStore, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func CacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

func (c *CachedProvider) Suggest(ctx context.Context, query string, products []model.ProductSummary) ([]string, error) {
	key := CacheKey(query)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ids []string
		if jerr := json.Unmarshal(raw, &ids); jerr == nil {
			// 商品が削除されている可能性がある
			return knownIDs(ids, products), nil
		}
		c.logger.Warn("suggest cache entry corrupt", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("suggest cache get failed", zap.String("key", key), zap.Error(err))
	}

	ids, err := c.next.Suggest(ctx, query, products)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(ids)
	if err != nil {
		return ids, nil
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("suggest cache set failed", zap.String("key", key), zap.Error(err))
	}
	return ids, nil
}
