package ports

import "ongkir-service/internal/domain"

// CandidateRef addresses one option of a specific search.
// A ref from a superseded search never resolves.
type CandidateRef struct {
	Session string `json:"session"`
	Index   int    `json:"index"`
}

// Option is one selectable entry of a disambiguation list.
type Option struct {
	Index int          `json:"index"`
	Label string       `json:"label"`
	Ref   CandidateRef `json:"ref"`
}

// Port: the result region of the page plus the destination text field.
// Every call replaces what the region showed before.
type Display interface {
	ShowStatus(text string)
	ShowMessage(text string)
	ShowFare(destinationLabel string, fare domain.FareBreakdown)
	ShowOptions(options []Option)
	SetDestinationLabel(label string)
}
