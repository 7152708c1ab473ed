package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuoteEvent describes a fare that was shown to a user.
type QuoteEvent struct {
	ID               uuid.UUID     `json:"id"`
	InteractionID    uuid.UUID     `json:"interaction_id"`
	Trigger          string        `json:"trigger"`
	Origin           Coordinates   `json:"origin"`
	Destination      Coordinates   `json:"destination"`
	DestinationLabel string        `json:"destination_label"`
	Fare             FareBreakdown `json:"fare"`
	OccurredAt       time.Time     `json:"occurred_at"`
}
