// Service simulator stands in for a fleet of devices. It posts a generated
// reading to the platform on every interval and, when a socket URL is
// configured, announces each stored reading as a heartbeat.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prompted/iotplatform/internal/config"
	"github.com/prompted/iotplatform/internal/envelope"
	"github.com/prompted/iotplatform/internal/generator"
	"github.com/prompted/iotplatform/internal/httpx"
	"github.com/prompted/iotplatform/internal/models"
	"github.com/prompted/iotplatform/internal/simulator"
)

func main() {
	cfg, err := config.LoadSimulator()
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

	// Low retry count (1) so a slow platform doesn't stall the pipeline.
	client := httpx.NewClient(10*time.Second, 1)

	// Root context cancelled on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hb simulator.Heartbeater
	if cfg.SocketURL != "" {
		sock, err := simulator.DialSocket(ctx, cfg.SocketURL)
		if err != nil {
			slog.Warn("live socket unavailable, heartbeats disabled", "url", cfg.SocketURL, "error", err)
		} else {
			defer sock.Close()
			hb = sock
		}
	}

	go simulator.Run(ctx, simulator.Options{
		PlatformURL:   cfg.PlatformURL,
		Interval:      time.Duration(cfg.IntervalMS) * time.Millisecond,
		ChannelBuffer: cfg.ChannelBuffer,
		Ranges:        ranges,
	}, client, generator.New(devices, nil), hb)

	// HTTP server for health probes.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		envelope.WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Service: "simulator"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := simulator.Healthy(r.Context(), client, cfg.PlatformURL); err != nil {
			envelope.WriteJSON(w, http.StatusServiceUnavailable,
				models.HealthResponse{Status: "unavailable", Service: "simulator"})
			return
		}
		envelope.WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ready", Service: "simulator"})
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("simulator listening", "addr", srv.Addr)
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

	// Stop generating before the health server goes away.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}
