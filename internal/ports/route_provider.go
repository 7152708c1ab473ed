package ports

import (
	"context"
	"errors"
	"ongkir-service/internal/domain"
)

// ErrNoRoute is returned when the routing service answered but found no route.
var ErrNoRoute = errors.New("no route between points")

// Contract for retrieving a driving route between two points.
type RouteProvider interface {
	FetchRoute(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error)
}
