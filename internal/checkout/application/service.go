package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

type Service struct {
	log      *slog.Logger
	catalog  ProductCatalog
	payments PaymentSessions
}

func NewService(log *slog.Logger, catalog ProductCatalog, payments PaymentSessions) *Service {
	return &Service{log: log, catalog: catalog, payments: payments}
}

// CreateSession checks every submitted line against the stored price and
// asks the payment processor for a session. Nothing is persisted and two
// identical requests yield two sessions.
func (s *Service) CreateSession(ctx context.Context, req domain.SessionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	ids := req.ProductIDs()
	products, err := s.catalog.PricesByID(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if len(products) != len(req.Items) {
		s.log.Warn("product validation failed",
			"items_count", len(req.Items),
			"products_count", len(products),
			"product_ids", ids,
		)
		if len(products) == 0 {
			return "", fmt.Errorf("%w: no products found", domain.ErrProductMismatch)
		}
		return "", fmt.Errorf("%w: mismatch in product count", domain.ErrProductMismatch)
	}

	prices := make(map[string]int64, len(products))
	for _, p := range products {
		prices[p.ID] = p.PriceCents
	}

	lines := make([]domain.PricedLine, 0, len(req.Items))
	for _, item := range req.Items {
		stored, ok := prices[item.ProductID]
		if !ok || stored != item.PriceCents {
			s.log.Warn("price mismatch",
				"product_id", item.ProductID,
				"submitted_cents", item.PriceCents,
				"stored_cents", stored,
				"found", ok,
			)
			return "", fmt.Errorf("%w for product %s", domain.ErrPriceMismatch, item.ProductID)
		}
		lines = append(lines, domain.PricedLine{
			Name:       item.Name,
			UnitAmount: item.PriceCents,
			Quantity:   item.Quantity,
			Currency:   domain.Currency,
		})
	}

	sessionID, err := s.payments.CreateCheckoutSession(ctx, lines, req.SuccessURL, req.CancelURL, req.ClientReference)
	if err != nil {
		return "", err
	}
	s.log.Info("checkout session created", "session_id", sessionID, "lines", len(lines))
	return sessionID, nil
}
