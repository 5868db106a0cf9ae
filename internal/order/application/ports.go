package application

import (
	"context"

	checkout "github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
	"github.com/dmehra2102/storefront-checkout/internal/order/domain"
)

type OrderRepository interface {
	CartRows(ctx context.Context, userID string) ([]domain.CartRow, error)
	// PlaceWithOutbox stores the order and its event and empties the
	// user's cart in one transaction.
	PlaceWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, headers map[string]string, traceparent string) error
	BySession(ctx context.Context, userID, sessionID string) (domain.Order, error)
	Get(ctx context.Context, userID, id string) (domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
}

// PaymentVerifier reads a checkout session back from the payment processor.
type PaymentVerifier interface {
	LookupSession(ctx context.Context, sessionID string) (checkout.SessionSummary, error)
}

type Guard interface {
	Key(scope, id string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
