package mapview

import (
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strconv"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	KindMarker   = "marker"
	KindPolyline = "polyline"
)

// Layer is one overlay drawn on the canvas.
type Layer struct {
	ID        domain.LayerID
	Kind      string
	Role      string
	Popup     string
	OpenPopup bool
	Color     string
	Path      []domain.Coordinates
}

// Viewport is what the map is currently framed on.
// Bounds is set by FitBounds and cleared by SetView.
type Viewport struct {
	Center domain.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
	Bounds *orb.Bound         `json:"bounds,omitempty"`
}

// Canvas is an in-memory ports.MapWidget. The browser page draws whatever
// FeatureCollection returns; nothing is rendered server-side.
type Canvas struct {
	mu     sync.RWMutex
	seq    int
	layers map[domain.LayerID]Layer
	order  []domain.LayerID
	view   Viewport
}

var _ ports.MapWidget = (*Canvas)(nil)

func NewCanvas() *Canvas {
	return &Canvas{layers: map[domain.LayerID]Layer{}}
}

func (c *Canvas) nextID() domain.LayerID {
	c.seq++
	return domain.LayerID("layer-" + strconv.Itoa(c.seq))
}

func (c *Canvas) SetView(center domain.Coordinates, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = Viewport{Center: center, Zoom: zoom}
}

func (c *Canvas) AddMarker(at domain.Coordinates, opts ports.MarkerOptions) domain.LayerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID()
	c.layers[id] = Layer{
		ID:        id,
		Kind:      KindMarker,
		Role:      opts.Role,
		Popup:     opts.Popup,
		OpenPopup: opts.OpenPopup,
		Path:      []domain.Coordinates{at},
	}
	c.order = append(c.order, id)
	return id
}

func (c *Canvas) AddPolyline(path []domain.Coordinates, color string) domain.LayerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID()
	cp := make([]domain.Coordinates, len(path))
	copy(cp, path)
	c.layers[id] = Layer{ID: id, Kind: KindPolyline, Color: color, Path: cp}
	c.order = append(c.order, id)
	return id
}

// RemoveLayer is a no-op for unknown ids.
func (c *Canvas) RemoveLayer(id domain.LayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.layers[id]; !ok {
		return
	}
	delete(c.layers, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Canvas) FitBounds(bounds orb.Bound) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := bounds
	center := b.Center()
	c.view.Center = domain.Coordinates{Lat: center.Lat(), Lon: center.Lon()}
	c.view.Bounds = &b
}

// Layers returns the live layers in draw order.
func (c *Canvas) Layers() []Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Layer, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.layers[id])
	}
	return out
}

func (c *Canvas) View() Viewport {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := c.view
	if v.Bounds != nil {
		b := *v.Bounds
		v.Bounds = &b
	}
	return v
}

// FeatureCollection renders the live layers as GeoJSON: markers become Points,
// polylines LineStrings. Layer attributes travel in the feature properties.
func (c *Canvas) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range c.Layers() {
		var f *geojson.Feature
		switch l.Kind {
		case KindMarker:
			f = geojson.NewFeature(toPoint(l.Path[0]))
			f.Properties["role"] = l.Role
			f.Properties["popup"] = l.Popup
			f.Properties["open_popup"] = l.OpenPopup
		case KindPolyline:
			f = geojson.NewFeature(ToLineString(l.Path))
			f.Properties["color"] = l.Color
		default:
			continue
		}
		f.ID = string(l.ID)
		f.Properties["kind"] = l.Kind
		fc.Append(f)
	}
	return fc
}

func toPoint(c domain.Coordinates) orb.Point { return orb.Point{c.Lon, c.Lat} }

// ToLineString converts a path to an orb.LineString in [lon, lat] order.
func ToLineString(path []domain.Coordinates) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, c := range path {
		ls = append(ls, toPoint(c))
	}
	return ls
}
