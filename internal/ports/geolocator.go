package ports

import (
	"context"
	"ongkir-service/internal/domain"
)

// Geolocator is a one-shot device position request.
// Failures are domain.ErrGeolocationDenied, ErrGeolocationUnsupported or
// ErrGeolocationUnavailable (possibly wrapped).
type Geolocator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}
