package domain

// LayerID identifies a marker or polyline drawn on the map widget.
// The zero value means "no layer".
type LayerID string
