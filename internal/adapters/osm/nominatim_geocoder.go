package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/platform/obs"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim returns coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// NominatimGeocoder implements ports.PlaceLookup using OpenStreetMap Nominatim
// (/search and /reverse). It is safe for concurrent use.
type NominatimGeocoder struct {
	*apiClient
	logger *zap.Logger
}

func NewNominatimGeocoder(opts ClientOptions, logger *zap.Logger) (*NominatimGeocoder, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultNominatimURL
	}
	c, err := newAPIClient(opts)
	if err != nil {
		return nil, fmt.Errorf("new nominatim geocoder: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimGeocoder{apiClient: c, logger: logger}, nil
}

// SearchPlaces resolves a free-text query to at most limit candidates.
// Entries with unparseable coordinates are skipped; Rank keeps the service order.
func (n *NominatimGeocoder) SearchPlaces(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.GeocodeCandidate, err error) {
	defer obs.Time(ctx, "nominatim.SearchPlaces")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search places: query must be non-empty")
	}
	if limit < 1 {
		limit = 1
	}

	endpoint := n.baseURL + "/search"
	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := n.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", strconv.Itoa(limit))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search places %q: execute request: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search places %q: decode response: %w", query, err)
	}

	out := make([]domain.GeocodeCandidate, 0, len(decoded))
	for i, r := range decoded {
		if len(out) == limit {
			break
		}
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			n.logger.Warn("skipping search result with invalid coordinates",
				zap.String("query", query),
				zap.Int("rank", i),
				zap.String("lat", r.Lat),
				zap.String("lon", r.Lon),
			)
			continue
		}
		out = append(out, domain.GeocodeCandidate{
			Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
			Label:       r.DisplayName,
			Rank:        i,
		})
	}

	return out, nil
}

// ReverseLookup returns the display name Nominatim holds for a coordinate.
func (n *NominatimGeocoder) ReverseLookup(ctx context.Context, at domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "nominatim.ReverseLookup")(&err)

	endpoint := n.baseURL + "/reverse"
	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := n.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("format", "json")
		q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("reverse lookup %s: execute request: %w", at.Key(), err)
	}
	defer resp.Body.Close()

	var decoded reverseResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("reverse lookup %s: decode response: %w", at.Key(), err)
	}

	if decoded.Error != "" {
		return "", fmt.Errorf("reverse lookup %s: service error: %s", at.Key(), decoded.Error)
	}
	if strings.TrimSpace(decoded.DisplayName) == "" {
		return "", fmt.Errorf("reverse lookup %s: missing display_name", at.Key())
	}

	return decoded.DisplayName, nil
}
