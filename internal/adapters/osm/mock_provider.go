package osm

import (
	"context"
	"fmt"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strings"
	"sync"
)

// MockPlaces is an in-memory PlaceLookup keyed by query text and coordinate key.
// Queries and coordinates listed in Fail return an error instead.
type MockPlaces struct {
	Results map[string][]domain.GeocodeCandidate
	Labels  map[string]string
	Fail    map[string]error

	mu    sync.Mutex
	calls int
}

func NewMockPlaces() *MockPlaces {
	return &MockPlaces{
		Results: map[string][]domain.GeocodeCandidate{},
		Labels:  map[string]string{},
		Fail:    map[string]error{},
	}
}

// Calls returns how many lookups reached the mock.
func (m *MockPlaces) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockPlaces) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.GeocodeCandidate, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	key := strings.TrimSpace(query)
	if err, ok := m.Fail[key]; ok {
		return nil, err
	}
	res := m.Results[key]
	if len(res) > limit {
		res = res[:limit]
	}
	out := make([]domain.GeocodeCandidate, len(res))
	copy(out, res)
	return out, nil
}

func (m *MockPlaces) ReverseLookup(ctx context.Context, at domain.Coordinates) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err, ok := m.Fail[at.Key()]; ok {
		return "", err
	}
	label, ok := m.Labels[at.Key()]
	if !ok {
		return "", fmt.Errorf("missing label for %s", at.Key())
	}
	return label, nil
}

// MockPair is one canned route.
type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
	Path     []domain.Coordinates
}

// MockRoutes is an in-memory RouteProvider. Unknown pairs yield ports.ErrNoRoute.
type MockRoutes struct {
	m     map[string]domain.Route
	mu    sync.Mutex
	calls int
}

func NewMockRoutes(pairs []MockPair) *MockRoutes {
	m := make(map[string]domain.Route, len(pairs))
	for _, p := range pairs {
		path := p.Path
		if len(path) == 0 {
			path = []domain.Coordinates{p.From, p.To}
		}
		m[p.From.Key()+"|"+p.To.Key()] = domain.Route{
			Path:            path,
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
		}
	}
	return &MockRoutes{m: m}
}

// Calls returns how many route requests reached the mock.
func (p *MockRoutes) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockRoutes) FetchRoute(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	r, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return domain.Route{}, fmt.Errorf("missing pair %s -> %s: %w", origin.Key(), destination.Key(), ports.ErrNoRoute)
	}
	return r, nil
}
