package domain

// FareBreakdown is the itemized price of a route under a PricingConfig.
// DistanceKm and DurationMinutes always describe the one-way trip;
// BillableKm is the distance the tariff was applied to.
type FareBreakdown struct {
	Mode            PricingMode `json:"mode"`
	BaseFee         float64     `json:"base_fee"`
	DistanceFee     float64     `json:"distance_fee"`
	Subtotal        float64     `json:"subtotal"`
	Total           float64     `json:"total"`
	BillableKm      float64     `json:"billable_km"`
	DistanceKm      float64     `json:"distance_km"`
	DurationMinutes int         `json:"duration_minutes"`
}
