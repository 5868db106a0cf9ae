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
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/storefront-checkout/internal/checkout/infrastructure/stripe"
	"github.com/dmehra2102/storefront-checkout/internal/config"
	"github.com/dmehra2102/storefront-checkout/internal/migrations"
	"github.com/dmehra2102/storefront-checkout/internal/order/application"
	orderhttp "github.com/dmehra2102/storefront-checkout/internal/order/infrastructure/http"
	orderkafka "github.com/dmehra2102/storefront-checkout/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/storefront-checkout/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/storefront-checkout/pkg/auth"
	"github.com/dmehra2102/storefront-checkout/pkg/idempotency"
	"github.com/dmehra2102/storefront-checkout/pkg/logging"
	"github.com/dmehra2102/storefront-checkout/pkg/metrics"
	"github.com/dmehra2102/storefront-checkout/pkg/middleware"
	"github.com/dmehra2102/storefront-checkout/pkg/outbox"
	"github.com/dmehra2102/storefront-checkout/pkg/shutdown"
	"github.com/dmehra2102/storefront-checkout/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel).With("service", "order-service")
	if err := cfg.ValidateOrders(); err != nil {
		log.Error("config invalid", "err", err)
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "order-service", cfg.OTLPURL, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdown.Drain(cfg.ShutdownTimeout, tp.Shutdown) }()

	if cfg.Migrate {
		if err := migrations.Up(cfg.PGURL); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	// Postgres Setup
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	// Kafka producer
	writer := orderkafka.NewWriter(cfg.KafkaAddr)
	defer writer.Close()

	// Repository & Outbox store
	repo := orderpg.NewRepository(log, pool)
	store := orderpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, store, dispatch, "order-service-relay")

	sessions, err := stripe.NewSessions(log, stripe.Config{SecretKey: cfg.StripeSecretKey, APIURL: cfg.StripeAPIURL})
	if err != nil {
		log.Error("stripe init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	srvMetrics := metrics.NewServerMetrics(reg, "orders")

	svc := application.NewService(log, repo, sessions, idem)
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
	cors := middleware.NewCORS(cfg.AllowedOrigins, http.MethodGet, http.MethodPost)
	handler := orderhttp.NewHandler(log, svc, verifier, cors.Handler)

	// HTTP server
	r := chi.NewRouter()
	r.Use(middleware.Observe(log, srvMetrics))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler(reg))
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Run relay
	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	// Run HTTP
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	_ = shutdown.Drain(cfg.ShutdownTimeout, srv.Shutdown)
	log.Info("order-service shutdown complete")
}
