package handlers

import (
	"context"
	"fmt"
	"ongkir-service/internal/adapters/display"
	"ongkir-service/internal/adapters/mapview"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"ongkir-service/internal/services"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace is the state behind one browser tab: its map, result panel,
// search session and orchestrator. Nothing in it outlives the process.
type Workspace struct {
	ID           string
	Canvas       *mapview.Canvas
	Panel        *display.Panel
	Overlays     *services.OverlayManager
	Orchestrator *services.Orchestrator

	lastSeen time.Time
}

// WorkspaceSettings are shared by every workspace.
type WorkspaceSettings struct {
	Geocoder     *services.GeocodingClient
	Router       *services.RoutingClient
	Publisher    ports.QuotePublisher
	Format       *display.Formatter
	Logger       *zap.Logger
	Home         domain.Coordinates
	HomeLabel    string
	MapCenter    domain.Coordinates
	MapZoom      int
	Pricing      domain.PricingConfig
	DiscardStale bool
}

// NewWorkspace builds a workspace with the map framed on the configured center.
func (s WorkspaceSettings) NewWorkspace(id string) (*Workspace, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	canvas := mapview.NewCanvas()
	canvas.SetView(s.MapCenter, s.MapZoom)
	panel := display.NewPanel(s.Format)
	overlays := services.NewOverlayManager(canvas, s.HomeLabel)

	orch, err := services.NewOrchestrator(services.OrchestratorDeps{
		Geocoder:  s.Geocoder,
		Router:    s.Router,
		Session:   services.NewSearchSession(),
		Overlays:  overlays,
		Display:   panel,
		Publisher: s.Publisher,
		Logger:    logger.With(zap.String("workspace", id)),
	}, services.OrchestratorOptions{
		Home:         s.Home,
		HomeLabel:    s.HomeLabel,
		Pricing:      s.Pricing,
		DiscardStale: s.DiscardStale,
	})
	if err != nil {
		return nil, fmt.Errorf("new workspace: %w", err)
	}

	return &Workspace{
		ID:           id,
		Canvas:       canvas,
		Panel:        panel,
		Overlays:     overlays,
		Orchestrator: orch,
	}, nil
}

// Workspaces is the in-memory registry of live workspaces.
// Workspaces unused for longer than the idle timeout are evicted.
type Workspaces struct {
	settings WorkspaceSettings
	idle     time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(settings WorkspaceSettings, idle time.Duration) *Workspaces {
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspaces{
		settings: settings,
		idle:     idle,
		logger:   logger,
		now:      time.Now,
		items:    map[string]*Workspace{},
	}
}

func (w *Workspaces) IdleTimeout() time.Duration { return w.idle }

// Get returns the workspace with id and marks it as used.
func (w *Workspaces) Get(id string) (*Workspace, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.items[id]
	if !ok {
		return nil, false
	}
	ws.lastSeen = w.now()
	return ws, true
}

func (w *Workspaces) Create() (*Workspace, error) {
	ws, err := w.settings.NewWorkspace(uuid.NewString())
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	ws.lastSeen = w.now()
	w.items[ws.ID] = ws
	w.logger.Debug("workspace created", zap.String("workspace", ws.ID))
	return ws, nil
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Evict drops idle workspaces and returns how many were removed.
func (w *Workspaces) Evict() int {
	w.mu.Lock()
	var stale []*Workspace
	cutoff := w.now().Add(-w.idle)
	for id, ws := range w.items {
		if ws.lastSeen.Before(cutoff) {
			stale = append(stale, ws)
			delete(w.items, id)
		}
	}
	w.mu.Unlock()

	for _, ws := range stale {
		ws.Overlays.Clear()
	}
	if len(stale) > 0 {
		w.logger.Info("evicted idle workspaces", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunJanitor evicts idle workspaces every interval until ctx is done.
func (w *Workspaces) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Evict()
		}
	}
}
