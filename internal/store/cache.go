// internal/store/cache.go
package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurant-ai-service/internal/common/config"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/metrics"
)

// ResponseCache stores rendered process responses keyed by restaurant and
// message. Redis failures degrade to misses so the request path never
// depends on the cache being up.
type ResponseCache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
	logger  logger.Logger
}

func NewResponseCache(client *redis.Client, cfg config.CacheConfig, log logger.Logger) *ResponseCache {
	return &ResponseCache{
		client:  client,
		ttl:     time.Duration(cfg.TTL) * time.Second,
		enabled: cfg.Enabled,
		logger:  log.WithFields(map[string]interface{}{"component": "response-cache"}),
	}
}

// CacheKey derives the Redis key for one customer message. The message is
// hashed so keys stay bounded regardless of message length.
func CacheKey(restaurantID, message string) string {
	h := fnv.New64a()
	h.Write([]byte(message))
	return fmt.Sprintf("response:%s:%d", restaurantID, h.Sum64())
}

// Get returns the cached response payload, if any.
func (c *ResponseCache) Get(ctx context.Context, restaurantID, message string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	payload, err := c.client.Get(ctx, CacheKey(restaurantID, message)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if err != nil {
		metrics.CacheMisses.Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	metrics.CacheHits.Inc()
	return payload, true
}

// Set stores one response payload with the configured TTL. Failures are
// logged and dropped.
func (c *ResponseCache) Set(ctx context.Context, restaurantID, message string, payload []byte) {
	if !c.enabled {
		return
	}

	if err := c.client.Set(ctx, CacheKey(restaurantID, message), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
