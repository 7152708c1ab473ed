package services

import (
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"sync"

	"github.com/google/uuid"
)

// SearchSession holds the candidate list of the latest text search.
// Each RecordSearch replaces it wholesale under a fresh handle.
type SearchSession struct {
	mu         sync.RWMutex
	handle     string
	candidates []domain.GeocodeCandidate
}

func NewSearchSession() *SearchSession {
	return &SearchSession{}
}

// RecordSearch stores candidates and returns the handle their refs carry.
func (s *SearchSession) RecordSearch(candidates []domain.GeocodeCandidate) string {
	cp := make([]domain.GeocodeCandidate, len(candidates))
	copy(cp, candidates)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = uuid.NewString()
	s.candidates = cp
	return s.handle
}

// Resolve returns the candidate at index in the current session.
func (s *SearchSession) Resolve(index int) (domain.GeocodeCandidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.candidates) {
		return domain.GeocodeCandidate{}, false
	}
	return s.candidates[index], true
}

// ResolveRef is Resolve for refs; a ref from a superseded search never resolves.
func (s *SearchSession) ResolveRef(ref ports.CandidateRef) (domain.GeocodeCandidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.handle == "" || ref.Session != s.handle {
		return domain.GeocodeCandidate{}, false
	}
	if ref.Index < 0 || ref.Index >= len(s.candidates) {
		return domain.GeocodeCandidate{}, false
	}
	return s.candidates[ref.Index], true
}

// Options lists the current candidates as selectable entries.
func (s *SearchSession) Options() []ports.Option {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return optionsFor(s.handle, s.candidates)
}

// optionsFor lists candidates as the options of the search recorded under handle.
func optionsFor(handle string, candidates []domain.GeocodeCandidate) []ports.Option {
	opts := make([]ports.Option, len(candidates))
	for i, c := range candidates {
		opts[i] = ports.Option{
			Index: i,
			Label: c.Label,
			Ref:   ports.CandidateRef{Session: handle, Index: i},
		}
	}
	return opts
}

func (s *SearchSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates)
}
