package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/luminastore/lumina/internal"
	"github.com/luminastore/lumina/internal/bootstrap"
	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/events"
	"github.com/luminastore/lumina/internal/memory"
	"github.com/luminastore/lumina/internal/middleware"
	"github.com/luminastore/lumina/internal/postgres"
	"github.com/luminastore/lumina/internal/routes"
	"github.com/luminastore/lumina/internal/service"
	"github.com/luminastore/lumina/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Storage backends
	var (
		users    domain.UserService
		catalog  domain.CatalogService
		carts    domain.CartStore
		checkout domain.CheckoutStore
	)

	switch cfg.StoreBackend {
	case internal.StoreBackendPostgres:
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed")

		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		users = postgres.NewUserService(pool)
		catalog = postgres.NewCatalogService(pool)
		carts = postgres.NewCartStore(pool)
		checkout = postgres.NewOrderStore(pool)

	case internal.StoreBackendMemory:
		logger.Warn("Using in-memory store; all data is lost on restart")
		store := memory.New()
		users = store
		catalog = store
		carts = store
		checkout = store
	}

	if cfg.SeedOnStart {
		if err := bootstrap.SeedProducts(ctx, catalog, logger); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	// Event publishing
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := events.Connect(cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("NATS connection failed: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("Connected to NATS", "url", cfg.NatsURL)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("lumina", registry)
	businessMetrics := telemetry.NewBusinessMetrics("lumina", registry)

	// Services
	cartService := service.NewCartService(carts, catalog, logger, businessMetrics)
	checkoutService := service.NewCheckoutService(checkout, catalog, publisher, logger, businessMetrics)

	r := routes.New(routes.Services{
		Users:    users,
		Catalog:  catalog,
		Carts:    cartService,
		Checkout: checkoutService,
	}, routes.Options{
		Logger:        logger,
		Metrics:       httpMetrics,
		Registry:      registry,
		SecureCookies: cfg.Secure,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
