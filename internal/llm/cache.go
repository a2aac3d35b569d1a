// In file: internal/llm/cache.go
package llm

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/econosage/gateway/internal/version"
)

const responseCacheTTL = 24 * time.Hour

// ResponseCache stores final answers in Redis so repeated one-off questions
// skip the whole parse/compute/explain path. Keys are versioned through the
// version package, so deploying a change to any logical component retires
// the stale entries automatically.
type ResponseCache struct {
	rdb *redis.Client
}

func NewResponseCache(rdb *redis.Client) *ResponseCache {
	return &ResponseCache{rdb: rdb}
}

// Check looks for a cached final response to the given user input. Redis
// errors are treated as a cache miss; the cache must never take down a
// request that could have been served fresh.
func (c *ResponseCache) Check(ctx context.Context, input string) (string, bool) {
	key := version.GenerateVersionedCacheKey("response_cache", input)
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	} else if err != nil {
		log.Printf("Redis GET error for response cache: %v", err)
		return "", false
	}
	return val, true
}

// Set adds a final response to the cache.
func (c *ResponseCache) Set(ctx context.Context, input, response string) {
	key := version.GenerateVersionedCacheKey("response_cache", input)
	if err := c.rdb.Set(ctx, key, response, responseCacheTTL).Err(); err != nil {
		log.Printf("Redis SET error for response cache: %v", err)
	}
}
