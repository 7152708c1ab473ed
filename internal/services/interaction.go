package services

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateRouting   State = "routing"
	StateReady     State = "ready"
	StateError     State = "error"
)

// Allowed state transitions of one interaction. Ready and Error end it;
// the next user event starts a new interaction from Idle.
var validTransitions = map[State][]State{
	StateIdle:      {StateResolving},
	StateResolving: {StateRouting, StateError},
	StateRouting:   {StateReady, StateError},
	StateReady:     {},
	StateError:     {},
}

// CanTransition returns true if from -> to is allowed.
func CanTransition(from, to State) bool {
	return slices.Contains(validTransitions[from], to)
}

type Trigger string

const (
	TriggerSearch      Trigger = "search"
	TriggerSelect      Trigger = "select"
	TriggerMapClick    Trigger = "map-click"
	TriggerGeolocation Trigger = "geolocation"
)

// Interaction is one pass through the pipeline, started by a single user event.
type Interaction struct {
	ID         uuid.UUID
	Trigger    Trigger
	Generation uint64
	State      State
}

func newInteraction(trigger Trigger, generation uint64) *Interaction {
	return &Interaction{
		ID:         uuid.New(),
		Trigger:    trigger,
		Generation: generation,
		State:      StateIdle,
	}
}

func (i *Interaction) transition(to State) error {
	if !CanTransition(i.State, to) {
		return fmt.Errorf("interaction %s: invalid transition %s -> %s", i.ID, i.State, to)
	}
	i.State = to
	return nil
}
