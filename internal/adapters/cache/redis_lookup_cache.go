package cache

import (
	"context"
	"errors"
	"fmt"
	"ongkir-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLookupCache stores lookup payloads as plain redis strings with a TTL.
type RedisLookupCache struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisLookupCache(client *redis.Client, ttl time.Duration) *RedisLookupCache {
	return &RedisLookupCache{Client: client, TTL: ttl, Prefix: "ongkir:lookup:"}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return client, nil
}

func (r *RedisLookupCache) redisKey(kind, key string) string {
	return r.Prefix + kind + ":" + key
}

func (r *RedisLookupCache) Get(ctx context.Context, kind, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "lookup.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("redis lookup cache: client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get redis lookup cache: key must not be empty")
	}

	payload, err := r.Client.Get(ctx, r.redisKey(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get redis lookup cache %s/%q: %w", kind, key, err)
	}
	return payload, true, nil
}

func (r *RedisLookupCache) Put(ctx context.Context, kind, key string, payload []byte) error {
	if r.Client == nil {
		return errors.New("redis lookup cache: client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert redis lookup cache: empty key")
	}

	if err := r.Client.Set(ctx, r.redisKey(kind, key), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert redis lookup cache %s/%q: %w", kind, key, err)
	}
	return nil
}
