package ports

import (
	"context"
	"ongkir-service/internal/domain"
)

// Contract for forward and reverse geocoding against an external service.
// Implementations report failures as errors; degrading them is the caller's job.
type PlaceLookup interface {
	// Return up to limit candidates for a free-text query, in service order.
	SearchPlaces(ctx context.Context, query string, limit int) ([]domain.GeocodeCandidate, error)
	// Return a human-readable label for a coordinate.
	ReverseLookup(ctx context.Context, at domain.Coordinates) (string, error)
}
