package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/application"
	checkouthttp "github.com/dmehra2102/storefront-checkout/internal/checkout/infrastructure/http"
	checkoutpg "github.com/dmehra2102/storefront-checkout/internal/checkout/infrastructure/postgres"
	"github.com/dmehra2102/storefront-checkout/internal/checkout/infrastructure/stripe"
	"github.com/dmehra2102/storefront-checkout/internal/checkout/infrastructure/supabase"
	"github.com/dmehra2102/storefront-checkout/internal/config"
	"github.com/dmehra2102/storefront-checkout/internal/migrations"
	"github.com/dmehra2102/storefront-checkout/pkg/auth"
	"github.com/dmehra2102/storefront-checkout/pkg/logging"
	"github.com/dmehra2102/storefront-checkout/pkg/metrics"
	"github.com/dmehra2102/storefront-checkout/pkg/middleware"
	"github.com/dmehra2102/storefront-checkout/pkg/shutdown"
	"github.com/dmehra2102/storefront-checkout/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel).With("service", "checkout-service")
	if err := cfg.ValidateCheckout(); err != nil {
		log.Error("config invalid", "err", err)
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "checkout-service", cfg.OTLPURL, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdown.Drain(cfg.ShutdownTimeout, tp.Shutdown) }()

	// Product catalog
	var catalog application.ProductCatalog
	switch cfg.CatalogBackend {
	case config.CatalogSupabase:
		c, err := supabase.NewClient(supabase.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseAnonKey}, nil)
		if err != nil {
			log.Error("supabase client failed", "err", err)
			os.Exit(1)
		}
		catalog = c
	default:
		if cfg.MigratesCatalog() {
			if err := migrations.Up(cfg.PGURL); err != nil {
				log.Error("migrations failed", "err", err)
				os.Exit(1)
			}
			log.Info("migrations applied")
		}
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			log.Error("pg connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		catalog = checkoutpg.NewCatalog(log, pool)
	}

	sessions, err := stripe.NewSessions(log, stripe.Config{SecretKey: cfg.StripeSecretKey, APIURL: cfg.StripeAPIURL})
	if err != nil {
		log.Error("stripe init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	srvMetrics := metrics.NewServerMetrics(reg, "checkout")

	svc := application.NewService(log, catalog, sessions)
	cors := middleware.NewCORS(cfg.AllowedOrigins)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go limiter.Run(ctx, time.Minute)
	handler := checkouthttp.NewHandler(log, svc, srvMetrics, cors.Handler, limiter.Handler)
	if cfg.JWTSecret != "" {
		handler.WithShoppers(auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience))
	} else {
		log.Warn("SUPABASE_JWT_SECRET unset, sessions are created without a shopper reference")
	}

	// HTTP server
	r := chi.NewRouter()
	r.Use(middleware.Observe(log, srvMetrics))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", metrics.Handler(reg))
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "catalog", cfg.CatalogBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	_ = shutdown.Drain(cfg.ShutdownTimeout, srv.Shutdown)
	log.Info("checkout-service shutdown complete")
}
