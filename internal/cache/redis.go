package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"tokenlens/internal/domain"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "snapshot:"

// RedisClient is the slice of go-redis used by the cache, abstracted for
// testing with a fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// RedisCache stores snapshots in Redis so multiple instances share one TTL
// cache. Redis expiry replaces lazy eviction; read errors degrade to a miss
// so a flaky Redis never breaks a request.
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisCache(client RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient connects using either a host:port pair or a redis:// URL.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, address string) (*domain.MarketSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKeyPrefix+address).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("redis cache read error: %v", err)
		return nil, false
	}
	var snap domain.MarketSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("redis cache decode error: %v", err)
		return nil, false
	}
	return &snap, true
}

func (c *RedisCache) Set(ctx context.Context, address string, snap *domain.MarketSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("redis cache encode error: %v", err)
		return
	}
	if err := c.client.Set(ctx, snapshotKeyPrefix+address, data, c.ttl).Err(); err != nil {
		log.Printf("redis cache write error: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, address string) {
	if err := c.client.Del(ctx, snapshotKeyPrefix+address).Err(); err != nil {
		log.Printf("redis cache delete error: %v", err)
	}
}

func (c *RedisCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, snapshotKeyPrefix+"*", 100).Result()
		if err != nil {
			log.Printf("redis cache scan error: %v", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("redis cache delete error: %v", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
