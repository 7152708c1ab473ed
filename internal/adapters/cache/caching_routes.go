package cache

import (
	"context"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cachedRoute struct {
	Path            []domain.Coordinates `json:"path"`
	DistanceMeters  float64              `json:"distance_meters"`
	DurationSeconds float64              `json:"duration_seconds"`
}

// CachingRoutes decorates a RouteProvider with a LookupCache keyed by the
// ordered coordinate pair. "No route" answers are not cached.
type CachingRoutes struct {
	next   ports.RouteProvider
	cache  ports.LookupCache
	logger *zap.Logger
	group  singleflight.Group
}

func NewCachingRoutes(next ports.RouteProvider, cache ports.LookupCache, logger *zap.Logger) *CachingRoutes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingRoutes{next: next, cache: cache, logger: logger}
}

func (c *CachingRoutes) FetchRoute(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	key := origin.Key() + "|" + destination.Key()

	var cached cachedRoute
	if cacheGet(ctx, c.cache, c.logger, ports.KindRoute, key, &cached) {
		return domain.Route{
			Path:            cached.Path,
			DistanceMeters:  cached.DistanceMeters,
			DurationSeconds: cached.DurationSeconds,
		}, nil
	}

	v, err := shared(ctx, &c.group, key, func(ctx context.Context) (any, error) {
		r, err := c.next.FetchRoute(ctx, origin, destination)
		if err != nil {
			return domain.Route{}, err
		}
		cachePut(ctx, c.cache, c.logger, ports.KindRoute, key, cachedRoute{
			Path:            r.Path,
			DistanceMeters:  r.DistanceMeters,
			DurationSeconds: r.DurationSeconds,
		})
		return r, nil
	})
	if err != nil {
		return domain.Route{}, err
	}
	return v.(domain.Route), nil
}
