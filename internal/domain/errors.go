package domain

import "errors"

// Failure taxonomy of an interaction. Transport and parse failures never surface
// directly; the clients degrade them into one of these.
var (
	ErrEmptyQuery             = errors.New("destination query is empty")
	ErrDestinationNotFound    = errors.New("destination not found")
	ErrRouteUnavailable       = errors.New("route unavailable")
	ErrSelectionUnavailable   = errors.New("selected destination is no longer available")
	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	ErrInvalidPricing         = errors.New("invalid pricing configuration")
)
