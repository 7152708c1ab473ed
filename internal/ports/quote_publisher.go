package ports

import (
	"context"
	"ongkir-service/internal/domain"
)

// Port: sink for quotes that reached the user.
type QuotePublisher interface {
	PublishQuote(ctx context.Context, evt domain.QuoteEvent) error
}
