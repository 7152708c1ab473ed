package domain

// Route is a driving route between two points.
// Path is the full geometry in travel order; it is never mutated after construction.
type Route struct {
	Path            []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
}

// DistanceKm returns the one-way route length in kilometres.
func (r Route) DistanceKm() float64 { return r.DistanceMeters / 1000 }
