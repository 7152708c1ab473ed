package display

import (
	"ongkir-service/internal/domain"
	"ongkir-service/internal/ports"
	"sync"
)

const (
	KindStatus  = "status"
	KindMessage = "message"
	KindFare    = "fare"
	KindOptions = "options"
)

// Snapshot is what the result region and the destination field show.
type Snapshot struct {
	Kind             string         `json:"kind,omitempty"`
	Text             string         `json:"text,omitempty"`
	Fare             *FareView      `json:"fare,omitempty"`
	Options          []ports.Option `json:"options,omitempty"`
	DestinationLabel string         `json:"destination_label"`
	Version          int            `json:"version"`
}

// Panel is a ports.Display that keeps the latest content for the browser to poll.
type Panel struct {
	format *Formatter

	mu   sync.RWMutex
	snap Snapshot
}

var _ ports.Display = (*Panel)(nil)

func NewPanel(format *Formatter) *Panel {
	return &Panel{format: format}
}

func (p *Panel) replace(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.DestinationLabel = p.snap.DestinationLabel
	s.Version = p.snap.Version + 1
	p.snap = s
}

func (p *Panel) ShowStatus(text string) {
	p.replace(Snapshot{Kind: KindStatus, Text: text})
}

func (p *Panel) ShowMessage(text string) {
	p.replace(Snapshot{Kind: KindMessage, Text: text})
}

func (p *Panel) ShowFare(destinationLabel string, fare domain.FareBreakdown) {
	v := p.format.Fare(destinationLabel, fare)
	p.replace(Snapshot{Kind: KindFare, Fare: &v})
}

func (p *Panel) ShowOptions(options []ports.Option) {
	cp := make([]ports.Option, len(options))
	copy(cp, options)
	p.replace(Snapshot{Kind: KindOptions, Options: cp})
}

func (p *Panel) SetDestinationLabel(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.DestinationLabel = label
	p.snap.Version++
}

func (p *Panel) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.snap
	if s.Options != nil {
		s.Options = append([]ports.Option(nil), s.Options...)
	}
	return s
}
