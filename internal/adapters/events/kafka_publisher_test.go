package events

import (
	"context"
	"encoding/json"
	"errors"
	"ongkir-service/internal/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaQuotePublisher(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaQuotePublisher(w)

	evt := domain.QuoteEvent{
		ID:               uuid.New(),
		InteractionID:    uuid.New(),
		Trigger:          "search",
		Destination:      domain.Coordinates{Lat: -6.1754, Lon: 106.8272},
		DestinationLabel: "Monas",
		Fare:             domain.FareBreakdown{Mode: domain.PricingRoundTripWithBase, Total: 110000},
		OccurredAt:       time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishQuote(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, evt.ID.String(), string(msg.Key))

	var got domain.QuoteEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, evt.DestinationLabel, got.DestinationLabel)
	assert.Equal(t, 110000.0, got.Fare.Total)
}

func TestKafkaQuotePublisherError(t *testing.T) {
	p := NewKafkaQuotePublisher(&recordingWriter{err: errors.New("broker down")})

	err := p.PublishQuote(context.Background(), domain.QuoteEvent{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "quote.events")
	assert.Equal(t, "quote.events", w.Topic)
	assert.NotNil(t, w.Addr)
}
