// Package middleware holds the HTTP middleware shared by the services.
package middleware

import (
	"net/http"
	"strings"
)

// CORS answers preflight requests and decorates every response. Only
// origins from the allow list are echoed back; other origins receive an
// empty Allow-Origin so browsers refuse the response.
type CORS struct {
	allowed map[string]bool
	methods string
	headers string
}

func NewCORS(allowedOrigins []string, methods ...string) *CORS {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	if len(methods) == 0 {
		methods = []string{http.MethodPost}
	}
	return &CORS{
		allowed: allowed,
		methods: strings.Join(methods, ", ") + ", " + http.MethodOptions,
		headers: "Content-Type, Authorization, x-client-info",
	}
}

func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowOrigin := ""
		if c.allowed[origin] {
			allowOrigin = origin
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", c.methods)
		h.Set("Access-Control-Allow-Headers", c.headers)
		h.Set("Access-Control-Max-Age", "86400")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
