package cache

import (
	"context"
	"errors"
	"ongkir-service/internal/adapters/osm"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	home  = domain.Coordinates{Lat: -6.2425, Lon: 107.0719}
	monas = domain.Coordinates{Lat: -6.1754, Lon: 106.8272}
)

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, kind, key string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (brokenCache) Put(ctx context.Context, kind, key string, payload []byte) error {
	return errors.New("down")
}

// gatedUpstream blocks every lookup until release is closed, or until the
// lookup's own ctx is done.
type gatedUpstream struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newGatedUpstream() *gatedUpstream {
	return &gatedUpstream{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gatedUpstream) wait(ctx context.Context) error {
	g.calls.Add(1)
	g.started <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedUpstream) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.GeocodeCandidate, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	return []domain.GeocodeCandidate{{Coordinates: monas, Label: "Monas, Jakarta"}}, nil
}

func (g *gatedUpstream) ReverseLookup(ctx context.Context, at domain.Coordinates) (string, error) {
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	return "Monas, Jakarta", nil
}

func (g *gatedUpstream) FetchRoute(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	if err := g.wait(ctx); err != nil {
		return domain.Route{}, err
	}
	return domain.Route{Path: []domain.Coordinates{origin, destination}, DistanceMeters: 25000, DurationSeconds: 2400}, nil
}

type searchResult struct {
	res []domain.GeocodeCandidate
	err error
}

func TestCachingPlacesSharedSearchSurvivesFirstCallerCancel(t *testing.T) {
	store, _ := newSqliteCache(t, time.Hour)
	upstream := newGatedUpstream()
	places := NewCachingPlaces(upstream, store, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan searchResult, 1)
	go func() {
		res, err := places.SearchPlaces(ctxA, "Monas", 5)
		doneA <- searchResult{res, err}
	}()
	<-upstream.started

	doneB := make(chan searchResult, 1)
	go func() {
		res, err := places.SearchPlaces(context.Background(), "monas", 5)
		doneB <- searchResult{res, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	a := <-doneA
	require.ErrorIs(t, a.err, context.Canceled)

	close(upstream.release)
	b := <-doneB
	require.NoError(t, b.err)
	require.Len(t, b.res, 1)
	assert.Equal(t, "Monas, Jakarta", b.res[0].Label)
	assert.Equal(t, int32(1), upstream.calls.Load())

	// The shared result was cached even though its first caller left.
	again, err := places.SearchPlaces(context.Background(), "MONAS", 5)
	require.NoError(t, err)
	assert.Len(t, again, 1)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachingRoutesSharedFetchSurvivesFirstCallerCancel(t *testing.T) {
	store, _ := newSqliteCache(t, time.Hour)
	upstream := newGatedUpstream()
	routes := NewCachingRoutes(upstream, store, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := routes.FetchRoute(ctxA, home, monas)
		errA <- err
	}()
	<-upstream.started

	type routeResult struct {
		route domain.Route
		err   error
	}
	doneB := make(chan routeResult, 1)
	go func() {
		r, err := routes.FetchRoute(context.Background(), home, monas)
		doneB <- routeResult{r, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(upstream.release)
	b := <-doneB
	require.NoError(t, b.err)
	assert.Equal(t, 25000.0, b.route.DistanceMeters)
	assert.Equal(t, int32(1), upstream.calls.Load())
}

func TestCachingPlacesSearchHit(t *testing.T) {
	ctx := context.Background()
	store, _ := newSqliteCache(t, time.Hour)

	mock := osm.NewMockPlaces()
	mock.Results["Jakarta"] = []domain.GeocodeCandidate{
		{Coordinates: monas, Label: "Jakarta, Indonesia", Rank: 0},
		{Coordinates: domain.Coordinates{Lat: -6.26, Lon: 106.81}, Label: "Jakarta Selatan", Rank: 1},
	}
	places := NewCachingPlaces(mock, store, nil)

	first, err := places.SearchPlaces(ctx, "Jakarta", 5)
	require.NoError(t, err)
	second, err := places.SearchPlaces(ctx, "  JAKARTA ", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.Calls())

	// A different limit is a different key.
	_, err = places.SearchPlaces(ctx, "Jakarta", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls())
}

func TestCachingPlacesDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	store, _ := newSqliteCache(t, time.Hour)

	mock := osm.NewMockPlaces()
	mock.Fail["Monas"] = errors.New("boom")
	places := NewCachingPlaces(mock, store, nil)

	_, err := places.SearchPlaces(ctx, "Monas", 5)
	require.Error(t, err)
	_, err = places.SearchPlaces(ctx, "Monas", 5)
	require.Error(t, err)
	assert.Equal(t, 2, mock.Calls())

	got, err := places.SearchPlaces(ctx, "xyzzznotaplace", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, _ = places.SearchPlaces(ctx, "xyzzznotaplace", 5)
	assert.Equal(t, 4, mock.Calls(), "empty results are not cached")
}

func TestCachingPlacesReverse(t *testing.T) {
	ctx := context.Background()
	store, _ := newSqliteCache(t, time.Hour)

	mock := osm.NewMockPlaces()
	mock.Labels[monas.Key()] = "Monas, Jakarta"
	places := NewCachingPlaces(mock, store, nil)

	for n := 0; n < 3; n++ {
		label, err := places.ReverseLookup(ctx, monas)
		require.NoError(t, err)
		assert.Equal(t, "Monas, Jakarta", label)
	}
	assert.Equal(t, 1, mock.Calls())

	_, err := places.ReverseLookup(ctx, home)
	assert.Error(t, err)
}

func TestCachingPlacesBypassesBrokenCache(t *testing.T) {
	mock := osm.NewMockPlaces()
	mock.Labels[monas.Key()] = "Monas, Jakarta"
	places := NewCachingPlaces(mock, brokenCache{}, nil)

	label, err := places.ReverseLookup(context.Background(), monas)
	require.NoError(t, err)
	assert.Equal(t, "Monas, Jakarta", label)
}

func TestCachingRoutes(t *testing.T) {
	ctx := context.Background()
	store, _ := newSqliteCache(t, time.Hour)

	mock := osm.NewMockRoutes([]osm.MockPair{
		{From: home, To: monas, Meters: 25000, Seconds: 2400},
	})
	routes := NewCachingRoutes(mock, store, nil)

	first, err := routes.FetchRoute(ctx, home, monas)
	require.NoError(t, err)
	second, err := routes.FetchRoute(ctx, home, monas)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 25000.0, second.DistanceMeters)
	assert.Equal(t, []domain.Coordinates{home, monas}, second.Path)
	assert.Equal(t, 1, mock.Calls())

	_, err = routes.FetchRoute(ctx, monas, home)
	require.ErrorIs(t, err, ports.ErrNoRoute)
	_, err = routes.FetchRoute(ctx, monas, home)
	require.ErrorIs(t, err, ports.ErrNoRoute)
	assert.Equal(t, 3, mock.Calls())
}
