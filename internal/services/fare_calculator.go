package services

import (
	"fmt"
	"math"
	"ongkir-service/internal/domain"
)

// ComputeFare prices a route under cfg.
//
// one-way:              total = km * rate
// round-trip-with-base: total = round((base + 2*km*rate) / unit) * unit
//
// DistanceKm and DurationMinutes always describe the one-way route.
func ComputeFare(route domain.Route, cfg domain.PricingConfig) (domain.FareBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return domain.FareBreakdown{}, fmt.Errorf("compute fare: %w", err)
	}
	if route.DistanceMeters < 0 || math.IsNaN(route.DistanceMeters) || math.IsInf(route.DistanceMeters, 0) {
		return domain.FareBreakdown{}, fmt.Errorf("compute fare: invalid route distance %v", route.DistanceMeters)
	}

	km := route.DistanceKm()
	fare := domain.FareBreakdown{
		Mode:            cfg.Mode,
		DistanceKm:      km,
		DurationMinutes: int(math.Round(route.DurationSeconds / 60)),
	}

	switch cfg.Mode {
	case domain.PricingOneWay:
		fare.BillableKm = km
		fare.DistanceFee = km * cfg.PerKmRate
		fare.Subtotal = fare.DistanceFee
		fare.Total = fare.DistanceFee
	case domain.PricingRoundTripWithBase:
		unit := cfg.Unit()
		fare.BillableKm = km * 2
		fare.BaseFee = cfg.BaseFee
		fare.DistanceFee = fare.BillableKm * cfg.PerKmRate
		fare.Subtotal = cfg.BaseFee + fare.DistanceFee
		fare.Total = math.Round(fare.Subtotal/unit) * unit
	}
	return fare, nil
}
