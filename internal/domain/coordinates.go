package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the pair lies inside the WGS84 range.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("coordinates: NaN component")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinates: latitude %v out of range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("coordinates: longitude %v out of range", c.Lon)
	}
	return nil
}

// Key renders the pair at a fixed precision (about 11cm) for use as a cache key.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
