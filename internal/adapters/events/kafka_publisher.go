package events

import (
	"context"
	"encoding/json"
	"fmt"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/platform/obs"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaQuotePublisher writes each quote as a JSON message keyed by event id.
type KafkaQuotePublisher struct {
	w Writer
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaQuotePublisher(w Writer) *KafkaQuotePublisher {
	return &KafkaQuotePublisher{w: w}
}

func (p *KafkaQuotePublisher) PublishQuote(ctx context.Context, evt domain.QuoteEvent) (err error) {
	defer obs.Time(ctx, "quote.kafka.Publish")(&err)

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish quote: encode %s: %w", evt.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.ID.String()),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("QuoteCalculated")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish quote %s: %w", evt.ID, err)
	}
	return nil
}

func (p *KafkaQuotePublisher) Close() error {
	return p.w.Close()
}

// NopPublisher drops every quote. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishQuote(context.Context, domain.QuoteEvent) error { return nil }
