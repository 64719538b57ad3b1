// Service platform is the IoT telemetry platform: it ingests device
// readings, answers range, count and trend queries, and relays stored
// records to live socket subscribers.
//
//	@title			IoT Telemetry Platform API
//	@version		1.0
//	@description	Telemetry ingestion, query and metrics endpoints.
//	@host			localhost:3000
//	@BasePath		/
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prompted/iotplatform/internal/broadcast"
	"github.com/prompted/iotplatform/internal/broker"
	"github.com/prompted/iotplatform/internal/config"
	"github.com/prompted/iotplatform/internal/db"
	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/ingest"
	"github.com/prompted/iotplatform/internal/metrics"
	"github.com/prompted/iotplatform/internal/query"
	"github.com/prompted/iotplatform/internal/store"
)

const serviceName = "iot-platform"

func main() {
	cfg, err := config.LoadPlatform()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	devices, ranges := cfg.DeviceList(), generator.DefaultRanges
	if cfg.GeneratorProfile != "" {
		p, err := generator.LoadProfile(cfg.GeneratorProfile)
		if err != nil {
			slog.Error("failed to load generator profile", "error", err)
			os.Exit(1)
		}
		devices, ranges = p.Devices, p.Ranges
	}

	// Root context cancelled on shutdown; background loops hang off it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connCancel()

	pool, err := db.Connect(connCtx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	monitor := db.NewMonitor(pool, cfg.DBPingInterval)
	monitor.Check(connCtx)
	go monitor.Run(ctx)

	mp, err := metrics.NewProvider(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		slog.Error("failed to set up metrics", "error", err)
		os.Exit(1)
	}
	mp.SetGlobal()
	rec, err := metrics.NewRecorder(mp.MeterProvider.Meter("iotplatform"))
	if err != nil {
		slog.Error("failed to create instruments", "error", err)
		os.Exit(1)
	}

	hub := broadcast.NewHub(rec)
	producer := broker.NewKafkaProducer(cfg.KafkaBrokerList(), cfg.KafkaTopic)

	telemetry := store.NewStore(pool, store.WithAvailability(monitor))
	coord := ingest.NewCoordinator(telemetry, generator.New(devices, nil), ingest.Config{
		MaxRecords:   cfg.MaxRecords,
		Concurrency:  cfg.IngestConcurrency,
		WriteTimeout: cfg.IngestWriteTimeout,
	},
		ingest.WithObservers(broadcast.NewRecordRelay(hub), producer),
		ingest.WithMetrics(rec),
	)

	accessLog, closeAccessLog := accessLogger(cfg.AccessLogPath)
	defer closeAccessLog()

	r := newRouter(routerDeps{
		ingest:    ingest.NewHandler(coord, ranges),
		query:     query.NewHandler(query.NewEngine(telemetry, cfg.MaxRecords)),
		sockets:   broadcast.NewServer(hub, cfg.SubscriberBuffer),
		ready:     func(ctx context.Context) error { return readiness(ctx, monitor, pool) },
		accessLog: accessLog,
	})

	serve(cfg.Base, r)

	cancel()
	hub.Close()
	if err := producer.Close(); err != nil {
		slog.Error("kafka producer close error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := mp.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics shutdown error", "error", err)
	}
}

func readiness(ctx context.Context, monitor *db.Monitor, pool *sql.DB) error {
	if err := monitor.Available(); err != nil {
		return err
	}
	return db.Healthy(ctx, pool)
}

func serve(cfg config.Base, handler http.Handler) {
	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: socket connections set their own write deadlines.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("platform listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
