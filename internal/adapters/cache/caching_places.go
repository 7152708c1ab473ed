package cache

import (
	"context"
	"encoding/json"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachingPlaces decorates a PlaceLookup with a LookupCache.
// Identical concurrent lookups share one upstream call. Cache failures are logged and
// bypassed so the cache can never turn a working lookup into a failing one.
type CachingPlaces struct {
	next   ports.PlaceLookup
	cache  ports.LookupCache
	logger *zap.Logger
	group  singleflight.Group
}

func NewCachingPlaces(next ports.PlaceLookup, cache ports.LookupCache, logger *zap.Logger) *CachingPlaces {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingPlaces{next: next, cache: cache, logger: logger}
}

// normalizeQuery ensures consistent cache keys by collapsing whitespace and case.
func normalizeQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (c *CachingPlaces) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.GeocodeCandidate, error) {
	norm := normalizeQuery(query)
	if norm == "" {
		return c.next.SearchPlaces(ctx, query, limit)
	}
	key := norm + "|" + strconv.Itoa(limit)

	var cached []domain.GeocodeCandidate
	if c.lookup(ctx, ports.KindSearch, key, &cached) {
		return cached, nil
	}

	v, err := shared(ctx, &c.group, ports.KindSearch+"|"+key, func(ctx context.Context) (any, error) {
		res, err := c.next.SearchPlaces(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		if len(res) > 0 {
			c.store(ctx, ports.KindSearch, key, res)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	res := v.([]domain.GeocodeCandidate)
	out := make([]domain.GeocodeCandidate, len(res))
	copy(out, res)
	return out, nil
}

func (c *CachingPlaces) ReverseLookup(ctx context.Context, at domain.Coordinates) (string, error) {
	key := at.Key()

	var cached string
	if c.lookup(ctx, ports.KindReverse, key, &cached) {
		return cached, nil
	}

	v, err := shared(ctx, &c.group, ports.KindReverse+"|"+key, func(ctx context.Context) (any, error) {
		label, err := c.next.ReverseLookup(ctx, at)
		if err != nil {
			return "", err
		}
		c.store(ctx, ports.KindReverse, key, label)
		return label, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// shared runs fn once for all concurrent callers of key. fn gets a context that
// outlives the caller which started it; each caller stops waiting when its own
// ctx is done.
func shared(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error) {
	flight := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (any, error) {
		return fn(flight)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CachingPlaces) lookup(ctx context.Context, kind, key string, dst any) bool {
	return cacheGet(ctx, c.cache, c.logger, kind, key, dst)
}

func (c *CachingPlaces) store(ctx context.Context, kind, key string, v any) {
	cachePut(ctx, c.cache, c.logger, kind, key, v)
}

func cacheGet(ctx context.Context, cache ports.LookupCache, logger *zap.Logger, kind, key string, dst any) bool {
	payload, ok, err := cache.Get(ctx, kind, key)
	if err != nil {
		logger.Warn("lookup cache read failed", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		logger.Warn("lookup cache payload corrupt", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func cachePut(ctx context.Context, cache ports.LookupCache, logger *zap.Logger, kind, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Warn("lookup cache encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if err := cache.Put(ctx, kind, key, payload); err != nil {
		logger.Warn("lookup cache write failed", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
	}
}
