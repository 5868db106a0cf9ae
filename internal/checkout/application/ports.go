package application

import (
	"context"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

// ProductCatalog reads authoritative prices for exactly the given ids.
type ProductCatalog interface {
	PricesByID(ctx context.Context, ids []string) ([]domain.Product, error)
}

// PaymentSessions opens hosted payment pages. clientReference is stored on
// the session so a later confirmation can be matched to its shopper.
type PaymentSessions interface {
	CreateCheckoutSession(ctx context.Context, lines []domain.PricedLine, successURL, cancelURL, clientReference string) (string, error)
}
