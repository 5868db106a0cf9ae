package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/domain"
	"github.com/dmehra2102/storefront-checkout/pkg/auth"
	"github.com/dmehra2102/storefront-checkout/pkg/metrics"
)

const maxBodyBytes = 1 << 20

type SessionCreator interface {
	CreateSession(ctx context.Context, req domain.SessionRequest) (string, error)
}

type Authenticator interface {
	FromRequest(r *http.Request) (auth.Principal, error)
}

type Handler struct {
	log     *slog.Logger
	service SessionCreator
	metrics *metrics.ServerMetrics
	tracer  trace.Tracer
	authn   Authenticator
	mw      []func(http.Handler) http.Handler
}

// NewHandler wires the checkout endpoint. mw runs before routing, so a
// CORS middleware in it answers preflight requests.
func NewHandler(log *slog.Logger, service SessionCreator, m *metrics.ServerMetrics, mw ...func(http.Handler) http.Handler) *Handler {
	return &Handler{
		log:     log,
		service: service,
		metrics: m,
		tracer:  otel.Tracer("checkout-http"),
		mw:      mw,
	}
}

// WithShoppers makes the handler stamp sessions with the signed-in user.
// Anonymous requests still get a session; a bad token is rejected.
func (h *Handler) WithShoppers(a Authenticator) *Handler {
	h.authn = a
	return h
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw...)
	r.Post("/checkout/sessions", h.createSession)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return r
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCheckoutSession")
	defer span.End()

	var req domain.SessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.metrics.Checkouts.WithLabelValues("invalid_body").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if h.authn != nil {
		p, err := h.authn.FromRequest(r)
		switch {
		case err == nil:
			req.ClientReference = p.UserID
		case !errors.Is(err, auth.ErrUnauthenticated):
			h.metrics.Checkouts.WithLabelValues("invalid_token").Inc()
			h.log.Warn("checkout token rejected", "err", err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
	}

	sessionID, err := h.service.CreateSession(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.metrics.Checkouts.WithLabelValues(outcome(err)).Inc()
		h.log.Error("checkout error", "err", err, "items", len(req.Items))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.metrics.Checkouts.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrMissingProductID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrMissingRedirect):
		return "invalid_input"
	case errors.Is(err, domain.ErrProductMismatch):
		return "unknown_product"
	case errors.Is(err, domain.ErrPriceMismatch):
		return "price_mismatch"
	case errors.Is(err, domain.ErrUpstream):
		return "catalog_error"
	default:
		return "processor_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
