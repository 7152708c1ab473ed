package services

import (
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"sync"

	"github.com/paulmach/orb"
)

const (
	RouteColor = "blue"

	RoleStart = "start"
	RoleEnd   = "end"
)

// OverlayManager owns the start marker, end marker and route polyline of one map.
// After ShowRoute there is exactly one of each.
type OverlayManager struct {
	widget    ports.MapWidget
	homeLabel string

	mu    sync.Mutex
	start domain.LayerID
	end   domain.LayerID
	line  domain.LayerID
}

func NewOverlayManager(widget ports.MapWidget, homeLabel string) *OverlayManager {
	return &OverlayManager{widget: widget, homeLabel: homeLabel}
}

// ShowRoute replaces the current overlays with the given route and frames it.
func (m *OverlayManager) ShowRoute(origin, destination domain.Coordinates, destinationLabel string, route domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked()

	m.start = m.widget.AddMarker(origin, ports.MarkerOptions{
		Role:  RoleStart,
		Popup: "From: " + m.homeLabel,
	})
	m.end = m.widget.AddMarker(destination, ports.MarkerOptions{
		Role:      RoleEnd,
		Popup:     "To: " + destinationLabel,
		OpenPopup: true,
	})

	path := route.Path
	if len(path) == 0 {
		path = []domain.Coordinates{origin, destination}
	}
	m.line = m.widget.AddPolyline(path, RouteColor)
	m.widget.FitBounds(pathBound(path))
}

// Clear removes every overlay.
func (m *OverlayManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *OverlayManager) clearLocked() {
	for _, id := range []domain.LayerID{m.start, m.end, m.line} {
		if id != "" {
			m.widget.RemoveLayer(id)
		}
	}
	m.start, m.end, m.line = "", "", ""
}

// Layers returns the ids of the start marker, end marker and polyline.
func (m *OverlayManager) Layers() (start, end, line domain.LayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start, m.end, m.line
}

func pathBound(path []domain.Coordinates) orb.Bound {
	ls := make(orb.LineString, len(path))
	for i, c := range path {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}
	return ls.Bound()
}
