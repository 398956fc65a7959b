// Package main is the entry point for the itinerary API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary/internal/config"
	"github.com/pkordes/itinerary/internal/geo"
	"github.com/pkordes/itinerary/internal/handler"
	"github.com/pkordes/itinerary/internal/metrics"
	"github.com/pkordes/itinerary/internal/middleware"
	"github.com/pkordes/itinerary/internal/repo"
	"github.com/pkordes/itinerary/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Storage ----------------------------------------------------------
	slots, closeSlots, err := openSlots(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeSlots()
	slog.Info("storage ready", "backend", cfg.StorageBackend, "key", cfg.StorageKey)

	store := repo.NewTripStore(slots,
		repo.WithKey(cfg.StorageKey),
		repo.WithLogger(logger),
		repo.WithMetrics(m),
	)
	m.SetTripCount(len(store.GetAllTrips(context.Background())))

	// --- Device bridge ----------------------------------------------------
	var host geo.Host = geo.UnavailableHost{}
	if cfg.DeviceBridgeURL != "" {
		host = geo.NewBridgeHost(cfg.DeviceBridgeURL, &http.Client{Timeout: cfg.DeviceBridgeTimeout})
		slog.Info("device bridge configured", "url", cfg.DeviceBridgeURL)
	} else {
		slog.Warn("DEVICE_BRIDGE_URL not set; location and map routes will answer 503")
	}
	gateway := geo.NewGateway(host,
		geo.WithCoordinateType(cfg.CoordinateType),
		geo.WithScale(cfg.MapScale),
		geo.WithMapPage(cfg.MapPage),
		geo.WithLogger(logger),
		geo.WithMetrics(m),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → MaxBodySize.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	server := handler.NewServer(
		service.NewTripService(store),
		service.NewExportService(store),
		gateway,
	).WithLogger(logger)
	server.Routes(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a device bridge call to time out first.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.DeviceBridgeTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openSlots connects the storage backend named in cfg, applying migrations
// where the backend has a schema. The returned func releases the connection.
func openSlots(ctx context.Context, cfg config.Config) (repo.SlotRepo, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return repo.NewMemorySlotRepo(), func() {}, nil

	case config.BackendSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewSQLiteSlotRepo(db), func() { db.Close() }, nil

	case config.BackendPostgres:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		if err := repo.Migrate(ctx, goose.DialectPostgres, sqlDB); err != nil {
			sqlDB.Close()
			pool.Close()
			return nil, nil, err
		}
		return repo.NewPGSlotRepo(pool), func() { sqlDB.Close(); pool.Close() }, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return repo.NewRedisSlotRepo(client, "itinerary:"), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
