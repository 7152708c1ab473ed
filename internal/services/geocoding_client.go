package services

import (
	"context"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strings"

	"go.uber.org/zap"
)

const (
	// FallbackLabel names a coordinate the reverse lookup could not describe.
	FallbackLabel      = "point on map"
	DefaultSearchLimit = 5
)

// GeocodingClient degrades PlaceLookup failures: a failed search is an empty
// result and a failed reverse lookup is FallbackLabel. Failures are only logged.
type GeocodingClient struct {
	places ports.PlaceLookup
	limit  int
	logger *zap.Logger
}

func NewGeocodingClient(places ports.PlaceLookup, limit int, logger *zap.Logger) *GeocodingClient {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeocodingClient{places: places, limit: limit, logger: logger}
}

// Search returns up to the configured number of matches, in service order.
func (g *GeocodingClient) Search(ctx context.Context, query string) []domain.GeocodeCandidate {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	cands, err := g.places.SearchPlaces(ctx, q, g.limit)
	if err != nil {
		g.logger.Warn("geocode search failed", zap.String("op", "geocode.Search"), zap.String("query", q), zap.Error(err))
		return nil
	}
	if len(cands) > g.limit {
		cands = cands[:g.limit]
	}
	return cands
}

func (g *GeocodingClient) Reverse(ctx context.Context, at domain.Coordinates) string {
	label, err := g.places.ReverseLookup(ctx, at)
	if err != nil {
		g.logger.Warn("reverse geocode failed", zap.String("op", "geocode.Reverse"), zap.String("at", at.Key()), zap.Error(err))
		return FallbackLabel
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return FallbackLabel
	}
	return label
}
