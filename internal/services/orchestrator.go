package services

import (
	"context"
	"errors"
	"fmt"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress texts shown while a pipeline waits on an external call.
const (
	StatusSearching     = "searching for location..."
	StatusReverseLookup = "looking up location name..."
	StatusLocating      = "requesting your location..."
	StatusRouting       = "calculating route..."
)

const (
	publishQuoteTimeout = 5 * time.Second
	defaultHomeLabel    = "your home"
)

// Message returns the user-facing text for a pipeline failure.
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "please enter a destination"
	case errors.Is(err, domain.ErrDestinationNotFound):
		return "destination not found"
	case errors.Is(err, domain.ErrRouteUnavailable):
		return "route unavailable"
	case errors.Is(err, domain.ErrSelectionUnavailable):
		return "selected destination is no longer available"
	case errors.Is(err, domain.ErrGeolocationDenied):
		return "location permission denied; allow it in your browser settings"
	case errors.Is(err, domain.ErrGeolocationUnsupported):
		return "browser does not support geolocation"
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		return "unable to get your location"
	case errors.Is(err, domain.ErrInvalidPricing):
		return "fare configuration is invalid"
	}
	return "something went wrong"
}

// Outcome reports how one interaction ended.
// Stale is set when a newer interaction superseded it and its result was dropped.
type Outcome struct {
	InteractionID uuid.UUID
	Trigger       Trigger
	State         State
	Destination   *domain.GeocodeCandidate
	Fare          *domain.FareBreakdown
	Options       []ports.Option
	Err           error
	Stale         bool
}

type OrchestratorOptions struct {
	Home      domain.Coordinates
	HomeLabel string
	Pricing   domain.PricingConfig

	// DiscardStale drops the result of any interaction that is no longer the
	// latest one started. Off means last-write-wins.
	DiscardStale bool
}

// Orchestrator runs the destination -> route -> fare pipeline for one map.
// Pipelines may overlap; each write to the session, overlays and display is atomic.
type Orchestrator struct {
	geocoder  *GeocodingClient
	router    *RoutingClient
	session   *SearchSession
	overlays  *OverlayManager
	display   ports.Display
	publisher ports.QuotePublisher
	logger    *zap.Logger
	opts      OrchestratorOptions
	now       func() time.Time

	generation atomic.Uint64

	mu    sync.Mutex
	state State
}

type OrchestratorDeps struct {
	Geocoder  *GeocodingClient
	Router    *RoutingClient
	Session   *SearchSession
	Overlays  *OverlayManager
	Display   ports.Display
	Publisher ports.QuotePublisher
	Logger    *zap.Logger
}

func NewOrchestrator(deps OrchestratorDeps, opts OrchestratorOptions) (*Orchestrator, error) {
	if deps.Geocoder == nil || deps.Router == nil || deps.Session == nil || deps.Overlays == nil || deps.Display == nil {
		return nil, errors.New("new orchestrator: missing dependency")
	}
	if err := opts.Pricing.Validate(); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if err := opts.Home.Validate(); err != nil {
		return nil, fmt.Errorf("new orchestrator: home: %w", err)
	}
	if strings.TrimSpace(opts.HomeLabel) == "" {
		opts.HomeLabel = defaultHomeLabel
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Orchestrator{
		geocoder:  deps.Geocoder,
		router:    deps.Router,
		session:   deps.Session,
		overlays:  deps.Overlays,
		display:   deps.Display,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		opts:      opts,
		now:       time.Now,
		state:     StateIdle,
	}, nil
}

// State returns the state most recently reached by any interaction.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Home() domain.Coordinates { return o.opts.Home }

func (o *Orchestrator) begin(trigger Trigger) *Interaction {
	it := newInteraction(trigger, o.generation.Add(1))
	o.logger.Debug("interaction started",
		zap.String("interaction_id", it.ID.String()),
		zap.String("trigger", string(trigger)),
		zap.Uint64("generation", it.Generation),
	)
	return it
}

// current reports whether it may still write its results.
func (o *Orchestrator) current(it *Interaction) bool {
	return !o.opts.DiscardStale || it.Generation == o.generation.Load()
}

func (o *Orchestrator) advance(it *Interaction, to State) {
	if err := it.transition(to); err != nil {
		o.logger.Error("state machine violation", zap.Error(err))
		return
	}
	if !o.current(it) {
		return
	}
	o.mu.Lock()
	o.state = to
	o.mu.Unlock()
}

func (o *Orchestrator) status(it *Interaction, text string) {
	if o.current(it) {
		o.display.ShowStatus(text)
	}
}

func (o *Orchestrator) outcome(it *Interaction) Outcome {
	return Outcome{
		InteractionID: it.ID,
		Trigger:       it.Trigger,
		State:         it.State,
		Stale:         !o.current(it),
	}
}

func (o *Orchestrator) fail(it *Interaction, err error) Outcome {
	o.advance(it, StateError)
	out := o.outcome(it)
	out.Err = err

	if out.Stale {
		o.logger.Debug("stale interaction dropped", zap.String("interaction_id", it.ID.String()), zap.Error(err))
		return out
	}
	o.logger.Info("interaction failed",
		zap.String("interaction_id", it.ID.String()),
		zap.String("trigger", string(it.Trigger)),
		zap.Error(err),
	)
	o.display.ShowMessage(Message(err))
	return out
}

// SearchText geocodes query. One match is routed at once; several are offered
// for selection and the interaction stays Resolving.
func (o *Orchestrator) SearchText(ctx context.Context, query string) Outcome {
	it := o.begin(TriggerSearch)
	o.advance(it, StateResolving)

	q := strings.TrimSpace(query)
	if q == "" {
		return o.fail(it, domain.ErrEmptyQuery)
	}

	o.status(it, StatusSearching)
	cands := o.geocoder.Search(ctx, q)
	if !o.current(it) {
		return o.outcome(it)
	}
	handle := o.session.RecordSearch(cands)

	switch len(cands) {
	case 0:
		return o.fail(it, domain.ErrDestinationNotFound)
	case 1:
		return o.selected(ctx, it, cands[0])
	}

	opts := optionsFor(handle, cands)
	o.display.ShowOptions(opts)
	out := o.outcome(it)
	out.Options = opts
	return out
}

// SelectCandidate routes to the candidate at index in the latest search.
func (o *Orchestrator) SelectCandidate(ctx context.Context, index int) Outcome {
	it := o.begin(TriggerSelect)
	o.advance(it, StateResolving)

	c, ok := o.session.Resolve(index)
	if !ok {
		return o.fail(it, fmt.Errorf("select index %d: %w", index, domain.ErrSelectionUnavailable))
	}
	return o.selected(ctx, it, c)
}

// SelectRef routes to the candidate ref points at, if its search is still the latest.
func (o *Orchestrator) SelectRef(ctx context.Context, ref ports.CandidateRef) Outcome {
	it := o.begin(TriggerSelect)
	o.advance(it, StateResolving)

	c, ok := o.session.ResolveRef(ref)
	if !ok {
		return o.fail(it, fmt.Errorf("select ref %s/%d: %w", ref.Session, ref.Index, domain.ErrSelectionUnavailable))
	}
	return o.selected(ctx, it, c)
}

func (o *Orchestrator) selected(ctx context.Context, it *Interaction, c domain.GeocodeCandidate) Outcome {
	if o.current(it) {
		o.display.SetDestinationLabel(c.Label)
	}
	return o.routeTo(ctx, it, c)
}

// MapClick routes to a clicked point, labelled by reverse geocoding.
func (o *Orchestrator) MapClick(ctx context.Context, at domain.Coordinates) Outcome {
	it := o.begin(TriggerMapClick)
	o.advance(it, StateResolving)
	return o.routeToPoint(ctx, it, at)
}

// UseMyLocation routes to the device position reported by g.
func (o *Orchestrator) UseMyLocation(ctx context.Context, g ports.Geolocator) Outcome {
	it := o.begin(TriggerGeolocation)
	o.advance(it, StateResolving)

	o.status(it, StatusLocating)
	at, err := g.Locate(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrGeolocationDenied) &&
			!errors.Is(err, domain.ErrGeolocationUnsupported) &&
			!errors.Is(err, domain.ErrGeolocationUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrGeolocationUnavailable, err)
		}
		return o.fail(it, err)
	}
	return o.routeToPoint(ctx, it, at)
}

func (o *Orchestrator) routeToPoint(ctx context.Context, it *Interaction, at domain.Coordinates) Outcome {
	o.status(it, StatusReverseLookup)
	label := o.geocoder.Reverse(ctx, at)
	if o.current(it) {
		o.display.SetDestinationLabel(label)
	}
	return o.routeTo(ctx, it, domain.GeocodeCandidate{Coordinates: at, Label: label})
}

func (o *Orchestrator) routeTo(ctx context.Context, it *Interaction, dest domain.GeocodeCandidate) Outcome {
	o.advance(it, StateRouting)
	o.status(it, StatusRouting)

	route, ok := o.router.Route(ctx, o.opts.Home, dest.Coordinates)
	if !ok {
		return o.fail(it, domain.ErrRouteUnavailable)
	}

	fare, err := ComputeFare(route, o.opts.Pricing)
	if err != nil {
		return o.fail(it, err)
	}

	if !o.current(it) {
		return o.outcome(it)
	}

	o.overlays.ShowRoute(o.opts.Home, dest.Coordinates, dest.Label, route)
	o.display.ShowFare(dest.Label, fare)
	o.advance(it, StateReady)

	o.logger.Info("quote ready",
		zap.String("interaction_id", it.ID.String()),
		zap.String("trigger", string(it.Trigger)),
		zap.String("destination", dest.Label),
		zap.Float64("distance_km", fare.DistanceKm),
		zap.Float64("total", fare.Total),
	)
	o.publish(ctx, it, dest, fare)

	out := o.outcome(it)
	out.Destination = &dest
	out.Fare = &fare
	return out
}

func (o *Orchestrator) publish(ctx context.Context, it *Interaction, dest domain.GeocodeCandidate, fare domain.FareBreakdown) {
	if o.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishQuoteTimeout)
	defer cancel()

	evt := domain.QuoteEvent{
		ID:               uuid.New(),
		InteractionID:    it.ID,
		Trigger:          string(it.Trigger),
		Origin:           o.opts.Home,
		Destination:      dest.Coordinates,
		DestinationLabel: dest.Label,
		Fare:             fare,
		OccurredAt:       o.now().UTC(),
	}
	if err := o.publisher.PublishQuote(ctx, evt); err != nil {
		o.logger.Warn("publish quote failed", zap.String("interaction_id", it.ID.String()), zap.Error(err))
	}
}
