package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// SearchCache memoizes stock photo lookups so repeated slide regenerations
// do not re-hit provider quotas. Misses and redis failures both read as a
// miss; the cache never fails a search.
type SearchCache interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, value any)
	Close() error
}

type searchCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewSearchCache(log *logger.Logger) (SearchCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("MEDIA_CACHE_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &searchCache{
		log: log.With("service", "MediaSearchCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *searchCache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, "media:"+key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return false
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		c.log.Warn("Cache entry corrupt, dropping", "key", key, "error", uErr)
		_ = c.rdb.Del(ctx, "media:"+key).Err()
		return false
	}
	return true
}

func (c *searchCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if sErr := c.rdb.Set(ctx, "media:"+key, raw, c.ttl).Err(); sErr != nil {
		c.log.Warn("Cache write failed", "key", key, "error", sErr)
	}
}

func (c *searchCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
