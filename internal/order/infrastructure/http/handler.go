package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront-checkout/internal/order/domain"
	"github.com/dmehra2102/storefront-checkout/pkg/auth"
)

type OrderService interface {
	Confirm(ctx context.Context, userID, sessionID string) (domain.Order, error)
	Get(ctx context.Context, userID, id string) (domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
}

type Authenticator interface {
	FromRequest(r *http.Request) (auth.Principal, error)
}

type Handler struct {
	log     *slog.Logger
	service OrderService
	authn   Authenticator
	tracer  trace.Tracer
	mw      []func(http.Handler) http.Handler
}

func NewHandler(log *slog.Logger, service OrderService, authn Authenticator, mw ...func(http.Handler) http.Handler) *Handler {
	return &Handler{
		log:     log,
		service: service,
		authn:   authn,
		tracer:  otel.Tracer("order-http"),
		mw:      mw,
	}
}

type confirmOrderReq struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw...)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/orders/confirm", h.confirmOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
	})

	return r
}

// authenticate keeps a missing session apart from a broken one so callers
// can redirect to sign-in instead of showing an error.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := h.authn.FromRequest(r)
		switch {
		case errors.Is(err, auth.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			return
		case err != nil:
			h.log.Warn("token rejected", "err", err)
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ConfirmOrder")
	defer span.End()

	var req confirmOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	p, _ := auth.PrincipalFrom(ctx)
	o, err := h.service.Confirm(ctx, p.UserID, req.SessionID)
	if err != nil {
		span.RecordError(err)
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"order_id":    o.ID,
		"total_cents": o.TotalCents,
		"status":      o.Status,
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	orders, err := h.service.List(r.Context(), p.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	o, err := h.service.Get(r.Context(), p.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingSession), errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPaymentIncomplete):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrSessionOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConfirmInProgress), errors.Is(err, domain.ErrAlreadyPlaced),
		errors.Is(err, domain.ErrAmountMismatch):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("order request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
