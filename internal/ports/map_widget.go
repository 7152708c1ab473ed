package ports

import (
	"ongkir-service/internal/domain"

	"github.com/paulmach/orb"
)

// MarkerOptions describes a marker popup.
type MarkerOptions struct {
	Role      string
	Popup     string
	OpenPopup bool
}

// Port: the interactive map the overlays are drawn on.
// Rendering is the widget's concern; callers only add, remove and frame layers.
type MapWidget interface {
	SetView(center domain.Coordinates, zoom int)
	AddMarker(at domain.Coordinates, opts MarkerOptions) domain.LayerID
	AddPolyline(path []domain.Coordinates, color string) domain.LayerID
	RemoveLayer(id domain.LayerID)
	FitBounds(bounds orb.Bound)
}
