package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/platform/obs"
	"ongkir-service/internal/ports"
	"strconv"
)

// DefaultOSRMURL is the public OSRM demo server.
const DefaultOSRMURL = "https://router.project-osrm.org"

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouter implements ports.RouteProvider using the OSRM /route service
// with the driving profile and full GeoJSON geometry.
type OSRMRouter struct {
	*apiClient
	profile string
}

func NewOSRMRouter(opts ClientOptions) (*OSRMRouter, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOSRMURL
	}
	c, err := newAPIClient(opts)
	if err != nil {
		return nil, fmt.Errorf("new osrm router: %w", err)
	}
	return &OSRMRouter{apiClient: c, profile: "driving"}, nil
}

// FetchRoute returns the first route OSRM proposes from origin to destination.
// A response whose code is not "Ok" yields ports.ErrNoRoute.
func (o *OSRMRouter) FetchRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "osrm.FetchRoute")(&err)

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s;%s",
		o.baseURL, o.profile, lonLat(origin), lonLat(destination),
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		// OSRM answers NoRoute/NoSegment with 400 and a JSON body.
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return domain.Route{}, fmt.Errorf("fetch route: %w: %s", ports.ErrNoRoute, he.Body)
		}
		return domain.Route{}, fmt.Errorf("fetch route: execute request: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return domain.Route{}, fmt.Errorf("fetch route: decode response: %w", err)
	}

	if rr.Code != "Ok" {
		return domain.Route{}, fmt.Errorf("fetch route: %w: code=%s message=%s", ports.ErrNoRoute, rr.Code, rr.Message)
	}
	if len(rr.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("fetch route: %w: empty route list", ports.ErrNoRoute)
	}

	best := rr.Routes[0]
	path := make([]domain.Coordinates, 0, len(best.Geometry.Coordinates))
	for i, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			return domain.Route{}, fmt.Errorf("fetch route: invalid geometry point #%d", i)
		}
		// GeoJSON positions are [lon, lat].
		path = append(path, domain.Coordinates{Lat: c[1], Lon: c[0]})
	}

	return domain.Route{
		Path:            path,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

func lonLat(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}
