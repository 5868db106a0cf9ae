package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmehra2102/storefront-checkout/internal/order/domain"
	"github.com/dmehra2102/storefront-checkout/pkg/tracing"
)

const paymentStatusPaid = "paid"

type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	payments PaymentVerifier
	guard    Guard
	newID    func() string
}

func NewService(log *slog.Logger, repo OrderRepository, payments PaymentVerifier, guard Guard) *Service {
	return &Service{log: log, repo: repo, payments: payments, guard: guard, newID: uuid.NewString}
}

// Confirm turns the user's cart into a paid order for a completed checkout
// session. Repeating the call for the same session returns the order that
// was stored the first time.
func (s *Service) Confirm(ctx context.Context, userID, sessionID string) (domain.Order, error) {
	if sessionID == "" {
		return domain.Order{}, domain.ErrMissingSession
	}

	key := s.guard.Key("checkout-session", sessionID)
	seen, err := s.guard.Seen(ctx, key)
	if err != nil {
		// the unique session constraint still prevents a second order
		s.log.Warn("idempotency check failed", "session_id", sessionID, "err", err)
	}
	if seen {
		o, err := s.repo.BySession(ctx, userID, sessionID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, domain.ErrConfirmInProgress
		}
		return o, err
	}

	o, err := s.confirmOnce(ctx, userID, sessionID)
	if err != nil {
		if relErr := s.guard.Release(ctx, key); relErr != nil {
			s.log.Warn("idempotency release failed", "session_id", sessionID, "err", relErr)
		}
		return domain.Order{}, err
	}
	return o, nil
}

// confirmOnce runs with the claim held, or with Redis unavailable. The
// claim may also have expired after an earlier confirmation cleared the
// cart, so the stored order is looked up before anything else.
func (s *Service) confirmOnce(ctx context.Context, userID, sessionID string) (domain.Order, error) {
	o, err := s.repo.BySession(ctx, userID, sessionID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Order{}, err
	}
	return s.place(ctx, userID, sessionID)
}

func (s *Service) place(ctx context.Context, userID, sessionID string) (domain.Order, error) {
	cs, err := s.payments.LookupSession(ctx, sessionID)
	if err != nil {
		return domain.Order{}, err
	}
	if cs.PaymentStatus != paymentStatusPaid {
		s.log.Info("payment not completed", "session_id", sessionID, "status", cs.PaymentStatus)
		return domain.Order{}, domain.ErrPaymentIncomplete
	}
	if cs.ClientReference != userID {
		s.log.Warn("session owner mismatch", "session_id", sessionID, "user_id", userID)
		return domain.Order{}, domain.ErrSessionOwner
	}

	rows, err := s.repo.CartRows(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(rows) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	items, err := domain.ItemsFromCart(rows)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.NewOrder(s.newID(), userID, sessionID, items)
	if o.TotalCents != cs.AmountTotal {
		s.log.Warn("cart total differs from amount paid",
			"session_id", sessionID,
			"cart_cents", o.TotalCents,
			"paid_cents", cs.AmountTotal,
		)
		return domain.Order{}, domain.ErrAmountMismatch
	}

	payload, err := json.Marshal(domain.OrderPlaced{
		OrderID:    o.ID,
		UserID:     o.UserID,
		SessionID:  o.SessionID,
		TotalCents: o.TotalCents,
		Items:      o.Items,
	})
	if err != nil {
		return domain.Order{}, err
	}

	headers := map[string]string{"source": "order-service"}
	err = s.repo.PlaceWithOutbox(ctx, o, domain.EventOrderPlaced, payload, headers, tracing.Traceparent(ctx))
	if errors.Is(err, domain.ErrAlreadyPlaced) {
		return s.repo.BySession(ctx, userID, sessionID)
	}
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order placed", "order_id", o.ID, "session_id", sessionID, "total_cents", o.TotalCents)
	return o, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (domain.Order, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.List(ctx, userID)
}
