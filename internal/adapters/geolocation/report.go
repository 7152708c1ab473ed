package geolocation

import (
	"context"
	"fmt"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strings"
)

// Error codes the browser page reports for a failed position request.
const (
	CodePermissionDenied    = "permission_denied"
	CodePositionUnavailable = "position_unavailable"
	CodeTimeout             = "timeout"
	CodeUnsupported         = "unsupported"
)

// Report is the outcome of a browser geolocation request, posted back to the host.
// Exactly one of the coordinate pair or Error is expected.
type Report struct {
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
	Error string   `json:"error,omitempty"`
}

var _ ports.Geolocator = Report{}

// Locate turns the report into a position or a typed geolocation error.
func (r Report) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("locate: %w: %w", domain.ErrGeolocationUnavailable, err)
	}

	switch code := strings.ToLower(strings.TrimSpace(r.Error)); code {
	case "":
	case CodePermissionDenied:
		return domain.Coordinates{}, domain.ErrGeolocationDenied
	case CodeUnsupported:
		return domain.Coordinates{}, domain.ErrGeolocationUnsupported
	default:
		return domain.Coordinates{}, fmt.Errorf("locate: %s: %w", code, domain.ErrGeolocationUnavailable)
	}

	if r.Lat == nil || r.Lon == nil {
		return domain.Coordinates{}, fmt.Errorf("locate: missing coordinates: %w", domain.ErrGeolocationUnavailable)
	}
	at := domain.Coordinates{Lat: *r.Lat, Lon: *r.Lon}
	if err := at.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("locate: %w: %w", domain.ErrGeolocationUnavailable, err)
	}
	return at, nil
}
