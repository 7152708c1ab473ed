package services

import (
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(labels ...string) []domain.GeocodeCandidate {
	out := make([]domain.GeocodeCandidate, len(labels))
	for i, l := range labels {
		out[i] = domain.GeocodeCandidate{
			Coordinates: domain.Coordinates{Lat: -6 - float64(i)/10, Lon: 106.8},
			Label:       l,
			Rank:        i,
		}
	}
	return out
}

func TestSearchSessionEmpty(t *testing.T) {
	s := NewSearchSession()

	for _, i := range []int{-1, 0, 1} {
		_, ok := s.Resolve(i)
		assert.False(t, ok)
	}
	_, ok := s.ResolveRef(ports.CandidateRef{})
	assert.False(t, ok)
	assert.Empty(t, s.Options())
}

func TestSearchSessionBounds(t *testing.T) {
	s := NewSearchSession()
	s.RecordSearch(candidates("a", "b", "c"))

	for i := 0; i < 3; i++ {
		c, ok := s.Resolve(i)
		require.True(t, ok)
		assert.Equal(t, i, c.Rank)
	}
	for _, i := range []int{-1, 3, 100} {
		_, ok := s.Resolve(i)
		assert.False(t, ok, "index %d", i)
	}
}

func TestSearchSessionReplacement(t *testing.T) {
	s := NewSearchSession()
	first := s.RecordSearch(candidates("a1", "a2", "a3"))
	second := s.RecordSearch(candidates("b1"))
	require.NotEqual(t, first, second)

	c, ok := s.Resolve(0)
	require.True(t, ok)
	assert.Equal(t, "b1", c.Label)

	_, ok = s.Resolve(1)
	assert.False(t, ok)

	_, ok = s.ResolveRef(ports.CandidateRef{Session: first, Index: 0})
	assert.False(t, ok, "ref from a superseded search")

	c, ok = s.ResolveRef(ports.CandidateRef{Session: second, Index: 0})
	require.True(t, ok)
	assert.Equal(t, "b1", c.Label)

	s.RecordSearch(nil)
	_, ok = s.Resolve(0)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestSearchSessionOptions(t *testing.T) {
	s := NewSearchSession()
	h := s.RecordSearch(candidates("a", "b"))

	opts := s.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, ports.Option{Index: 1, Label: "b", Ref: ports.CandidateRef{Session: h, Index: 1}}, opts[1])
}

func TestOptionsForKeepsTheirOwnSearch(t *testing.T) {
	s := NewSearchSession()
	first := candidates("a1", "a2")
	h := s.RecordSearch(first)
	s.RecordSearch(candidates("b1", "b2", "b3"))

	opts := optionsFor(h, first)
	require.Len(t, opts, 2)
	assert.Equal(t, "a2", opts[1].Label)
	assert.Equal(t, h, opts[1].Ref.Session)

	_, ok := s.ResolveRef(opts[1].Ref)
	assert.False(t, ok)
}

func TestSearchSessionCopiesInput(t *testing.T) {
	s := NewSearchSession()
	in := candidates("a")
	s.RecordSearch(in)
	in[0].Label = "mutated"

	c, _ := s.Resolve(0)
	assert.Equal(t, "a", c.Label)
}
