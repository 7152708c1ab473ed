package domain

// GeocodeCandidate is one match from a forward geocoding search.
// Rank is the position the geocoding service returned it at.
type GeocodeCandidate struct {
	Coordinates Coordinates `json:"coordinates"`
	Label       string      `json:"label"`
	Rank        int         `json:"rank"`
}
