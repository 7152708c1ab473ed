package domain

import (
	"fmt"
	"math"
)

// PricingMode selects the billing model applied to a route.
type PricingMode string

const (
	PricingOneWay            PricingMode = "one-way"
	PricingRoundTripWithBase PricingMode = "round-trip-with-base"
)

// DefaultRoundingUnit applies when a round-trip tariff leaves RoundingUnit unset.
const DefaultRoundingUnit = 1000.0

// IsValid returns true if the mode is a recognized billing model.
func (m PricingMode) IsValid() bool {
	switch m {
	case PricingOneWay, PricingRoundTripWithBase:
		return true
	}
	return false
}

// PricingConfig holds the tariff. Amounts are in the base currency unit.
type PricingConfig struct {
	Mode         PricingMode
	BaseFee      float64
	PerKmRate    float64
	RoundingUnit float64
}

// Unit returns the rounding unit, falling back to DefaultRoundingUnit when unset.
func (p PricingConfig) Unit() float64 {
	if p.RoundingUnit <= 0 {
		return DefaultRoundingUnit
	}
	return p.RoundingUnit
}

// Validate rejects tariffs that cannot produce a well-formed breakdown.
// For round-trip-with-base the base fee must be a whole number of rounding units,
// otherwise rounding could land the total below the base fee.
func (p PricingConfig) Validate() error {
	if !p.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPricing, p.Mode)
	}
	if p.PerKmRate < 0 || math.IsNaN(p.PerKmRate) || math.IsInf(p.PerKmRate, 0) {
		return fmt.Errorf("%w: per-km rate must be a finite non-negative number", ErrInvalidPricing)
	}
	if p.Mode == PricingOneWay {
		return nil
	}
	if p.BaseFee < 0 || math.IsNaN(p.BaseFee) || math.IsInf(p.BaseFee, 0) {
		return fmt.Errorf("%w: base fee must be a finite non-negative number", ErrInvalidPricing)
	}
	if p.RoundingUnit < 0 {
		return fmt.Errorf("%w: rounding unit must be positive", ErrInvalidPricing)
	}
	unit := p.Unit()
	if math.Mod(p.BaseFee, unit) != 0 {
		return fmt.Errorf("%w: base fee %v is not a multiple of rounding unit %v", ErrInvalidPricing, p.BaseFee, unit)
	}
	return nil
}
