package services

import (
	"math"
	"ongkir-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roundTrip = domain.PricingConfig{
	Mode:         domain.PricingRoundTripWithBase,
	BaseFee:      20000,
	PerKmRate:    1800,
	RoundingUnit: 1000,
}

func TestComputeFareRoundTripMonas(t *testing.T) {
	fare, err := ComputeFare(domain.Route{DistanceMeters: 25000, DurationSeconds: 1800}, roundTrip)
	require.NoError(t, err)

	assert.Equal(t, domain.FareBreakdown{
		Mode:            domain.PricingRoundTripWithBase,
		BaseFee:         20000,
		DistanceFee:     90000,
		Subtotal:        110000,
		Total:           110000,
		BillableKm:      50,
		DistanceKm:      25,
		DurationMinutes: 30,
	}, fare)
}

func TestComputeFareRoundTripRounding(t *testing.T) {
	tests := []struct {
		meters float64
		want   float64
	}{
		{25300, 111000}, // 111080
		{25800, 113000}, // 112880
		{0, 20000},
		{139, 21000}, // 20500.4
	}
	for _, tt := range tests {
		fare, err := ComputeFare(domain.Route{DistanceMeters: tt.meters}, roundTrip)
		require.NoError(t, err)
		assert.Equal(t, tt.want, fare.Total, "meters=%v", tt.meters)
	}
}

func TestComputeFareRoundTripInvariants(t *testing.T) {
	cfgs := []domain.PricingConfig{
		roundTrip,
		{Mode: domain.PricingRoundTripWithBase, BaseFee: 15000, PerKmRate: 2750, RoundingUnit: 500},
		{Mode: domain.PricingRoundTripWithBase, BaseFee: 0, PerKmRate: 333},
	}
	for _, cfg := range cfgs {
		unit := cfg.Unit()
		for m := 0.0; m < 120000; m += 137.3 {
			fare, err := ComputeFare(domain.Route{DistanceMeters: m}, cfg)
			require.NoError(t, err)
			assert.Zero(t, math.Mod(fare.Total, unit), "total %v not a multiple of %v", fare.Total, unit)
			assert.GreaterOrEqual(t, fare.Total, cfg.BaseFee)
		}
	}
}

func TestComputeFareOneWay(t *testing.T) {
	cfg := domain.PricingConfig{Mode: domain.PricingOneWay, PerKmRate: 4000}

	for m := 0.0; m < 80000; m += 911.7 {
		fare, err := ComputeFare(domain.Route{DistanceMeters: m, DurationSeconds: 600}, cfg)
		require.NoError(t, err)
		assert.InDelta(t, m/1000*4000, fare.Total, 1e-6)
		assert.Zero(t, fare.BaseFee)
		assert.Equal(t, fare.DistanceKm, fare.BillableKm)
		assert.Equal(t, 10, fare.DurationMinutes)
	}
}

func TestComputeFareDurationRounding(t *testing.T) {
	tests := map[float64]int{0: 0, 29: 0, 30: 1, 89: 1, 90: 2, 1800: 30}
	for secs, want := range tests {
		fare, err := ComputeFare(domain.Route{DistanceMeters: 1000, DurationSeconds: secs}, roundTrip)
		require.NoError(t, err)
		assert.Equal(t, want, fare.DurationMinutes, "seconds=%v", secs)
	}
}

func TestComputeFareRejectsBadInput(t *testing.T) {
	bad := []domain.PricingConfig{
		{Mode: "metered", PerKmRate: 1},
		{Mode: domain.PricingOneWay, PerKmRate: -1},
		{Mode: domain.PricingRoundTripWithBase, BaseFee: 500, PerKmRate: 1, RoundingUnit: 1000},
		{Mode: domain.PricingRoundTripWithBase, BaseFee: -1000, PerKmRate: 1},
	}
	for _, cfg := range bad {
		_, err := ComputeFare(domain.Route{DistanceMeters: 1000}, cfg)
		assert.ErrorIs(t, err, domain.ErrInvalidPricing, "%+v", cfg)
	}

	_, err := ComputeFare(domain.Route{DistanceMeters: -1}, roundTrip)
	assert.Error(t, err)
}
