package services

import (
	"context"
	"errors"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"

	"go.uber.org/zap"
)

// RoutingClient reduces every RouteProvider failure to "no route".
type RoutingClient struct {
	provider ports.RouteProvider
	logger   *zap.Logger
}

func NewRoutingClient(provider ports.RouteProvider, logger *zap.Logger) *RoutingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutingClient{provider: provider, logger: logger}
}

// Route returns false when the service found no route or could not be reached.
func (r *RoutingClient) Route(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, bool) {
	route, err := r.provider.FetchRoute(ctx, origin, destination)
	if err != nil {
		fields := []zap.Field{
			zap.String("op", "routing.Route"),
			zap.String("from", origin.Key()),
			zap.String("to", destination.Key()),
			zap.Error(err),
		}
		if errors.Is(err, ports.ErrNoRoute) {
			r.logger.Info("no route found", fields...)
		} else {
			r.logger.Warn("route request failed", fields...)
		}
		return domain.Route{}, false
	}
	return route, true
}
