package stripe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
)

type Config struct {
	SecretKey string
	// APIURL overrides the API base, used against stripe-mock and in tests.
	APIURL     string
	HTTPClient *http.Client
}

// Sessions creates and inspects hosted checkout sessions.
type Sessions struct {
	log    *slog.Logger
	client *session.Client
}

func NewSessions(log *slog.Logger, cfg Config) (*Sessions, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}
	bc := &stripego.BackendConfig{
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelError},
	}
	if cfg.APIURL != "" {
		bc.URL = stripego.String(cfg.APIURL)
	}
	if cfg.HTTPClient != nil {
		bc.HTTPClient = cfg.HTTPClient
	}
	return &Sessions{
		log: log,
		client: &session.Client{
			B:   stripego.GetBackendWithConfig(stripego.APIBackend, bc),
			Key: cfg.SecretKey,
		},
	}, nil
}

func (s *Sessions) CreateCheckoutSession(ctx context.Context, lines []domain.PricedLine, successURL, cancelURL, clientReference string) (string, error) {
	params := sessionParams(lines, successURL, cancelURL, clientReference)
	params.Context = ctx

	cs, err := s.client.New(params)
	if err != nil {
		s.log.Error("stripe session create failed", "err", err)
		return "", err
	}
	return cs.ID, nil
}

// LookupSession reads back what the processor recorded for a session:
// payment status ("paid", "unpaid", ...), the charged total in minor units
// and the shopper reference set at creation.
func (s *Sessions) LookupSession(ctx context.Context, sessionID string) (domain.SessionSummary, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := s.client.Get(sessionID, params)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	return domain.SessionSummary{
		ID:              cs.ID,
		PaymentStatus:   string(cs.PaymentStatus),
		AmountTotal:     cs.AmountTotal,
		Currency:        string(cs.Currency),
		ClientReference: cs.ClientReferenceID,
	}, nil
}

func sessionParams(lines []domain.PricedLine, successURL, cancelURL, clientReference string) *stripego.CheckoutSessionParams {
	items := make([]*stripego.CheckoutSessionLineItemParams, 0, len(lines))
	for _, l := range lines {
		items = append(items, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripego.String(l.Currency),
				UnitAmount: stripego.Int64(l.UnitAmount),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(l.Name),
				},
			},
			Quantity: stripego.Int64(l.Quantity),
		})
	}
	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripego.String(successURL),
		CancelURL:          stripego.String(cancelURL),
	}
	if clientReference != "" {
		params.ClientReferenceID = stripego.String(clientReference)
		params.AddMetadata("user_id", clientReference)
	}
	return params
}
