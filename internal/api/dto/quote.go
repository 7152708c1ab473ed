package dto

import (
	"ongkir-service/internal/adapters/display"
	"ongkir-service/internal/adapters/mapview"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"

	"github.com/paulmach/orb/geojson"
)

type SearchRequest struct {
	Query string `json:"query"`
}

// SelectRequest addresses a candidate by ref or, failing that, by index.
type SelectRequest struct {
	Index *int                `json:"index,omitempty"`
	Ref   *ports.CandidateRef `json:"ref,omitempty"`
}

type MapClickRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// GeolocationRequest carries either a position or a browser error code.
type GeolocationRequest struct {
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
	Error string   `json:"error,omitempty"`
}

type ConfigResponse struct {
	Home        domain.Coordinates `json:"home"`
	HomeLabel   string             `json:"home_label"`
	MapCenter   domain.Coordinates `json:"map_center"`
	MapZoom     int                `json:"map_zoom"`
	PricingMode domain.PricingMode `json:"pricing_mode"`
	Currency    string             `json:"currency"`
	Locale      string             `json:"locale"`
}

type OutcomeResponse struct {
	InteractionID string                   `json:"interaction_id"`
	Trigger       string                   `json:"trigger"`
	State         string                   `json:"state"`
	Destination   *domain.GeocodeCandidate `json:"destination,omitempty"`
	Fare          *domain.FareBreakdown    `json:"fare,omitempty"`
	Options       []ports.Option           `json:"options,omitempty"`
	Error         string                   `json:"error,omitempty"`
	Message       string                   `json:"message,omitempty"`
	Stale         bool                     `json:"stale,omitempty"`
}

type StateResponse struct {
	Workspace string                     `json:"workspace"`
	State     string                     `json:"state"`
	Display   display.Snapshot           `json:"display"`
	Overlays  *geojson.FeatureCollection `json:"overlays"`
	Viewport  mapview.Viewport           `json:"viewport"`
}

type InteractionResponse struct {
	Outcome OutcomeResponse `json:"outcome"`
	State   StateResponse   `json:"state"`
}
