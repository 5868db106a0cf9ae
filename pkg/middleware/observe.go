package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmehra2102/storefront-checkout/pkg/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Observe logs each request and records it in m. The handler label is
// the chi route pattern so path parameters do not explode cardinality.
func Observe(log *slog.Logger, m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)
			m.Requests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			m.LatencyMS.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
			log.Info("http request",
				"method", r.Method,
				"route", route,
				"status", sw.status,
				"duration_ms", elapsed.Milliseconds(),
			)
		})
	}
}
