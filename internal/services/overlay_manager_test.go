package services

import (
	"ongkir-service/internal/adapters/mapview"
	"ongkir-service/internal/domain"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRoles(layers []mapview.Layer) map[string]int {
	out := map[string]int{}
	for _, l := range layers {
		if l.Kind == mapview.KindPolyline {
			out["line"]++
			continue
		}
		out[l.Role]++
	}
	return out
}

func TestOverlayManagerShowRouteTwice(t *testing.T) {
	canvas := mapview.NewCanvas()
	m := NewOverlayManager(canvas, "your home")

	mid := domain.Coordinates{Lat: -6.22, Lon: 106.95}
	m.ShowRoute(home, monas, "Monas", domain.Route{Path: []domain.Coordinates{home, mid, monas}})
	firstStart, _, _ := m.Layers()

	other := domain.Coordinates{Lat: -6.3, Lon: 107.0}
	m.ShowRoute(home, other, "Bekasi", domain.Route{Path: []domain.Coordinates{home, other}})

	layers := canvas.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, map[string]int{RoleStart: 1, RoleEnd: 1, "line": 1}, countRoles(layers))

	start, end, line := m.Layers()
	assert.NotEqual(t, firstStart, start)
	for _, l := range layers {
		switch l.ID {
		case start:
			assert.Equal(t, "From: your home", l.Popup)
			assert.False(t, l.OpenPopup)
		case end:
			assert.Equal(t, "To: Bekasi", l.Popup)
			assert.True(t, l.OpenPopup)
		case line:
			assert.Equal(t, RouteColor, l.Color)
			assert.Len(t, l.Path, 2)
		default:
			t.Fatalf("unexpected layer %s", l.ID)
		}
	}

	v := canvas.View()
	require.NotNil(t, v.Bounds)
	assert.Equal(t, orb.Bound{Min: orb.Point{107.0, -6.3}, Max: orb.Point{107.0719, -6.2425}}, *v.Bounds)
}

func TestOverlayManagerEmptyPath(t *testing.T) {
	canvas := mapview.NewCanvas()
	m := NewOverlayManager(canvas, "your home")

	m.ShowRoute(home, monas, "Monas", domain.Route{})
	_, _, line := m.Layers()
	for _, l := range canvas.Layers() {
		if l.ID == line {
			assert.Equal(t, []domain.Coordinates{home, monas}, l.Path)
		}
	}
}

func TestOverlayManagerClear(t *testing.T) {
	canvas := mapview.NewCanvas()
	m := NewOverlayManager(canvas, "your home")

	m.Clear()
	m.ShowRoute(home, monas, "Monas", domain.Route{Path: []domain.Coordinates{home, monas}})
	m.Clear()

	assert.Empty(t, canvas.Layers())
	start, end, line := m.Layers()
	assert.Empty(t, start)
	assert.Empty(t, end)
	assert.Empty(t, line)
}
