package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/prompted/iotplatform/internal/envelope"
	"github.com/prompted/iotplatform/internal/ingest"
	"github.com/prompted/iotplatform/internal/models"
	"github.com/prompted/iotplatform/internal/query"

	_ "github.com/prompted/iotplatform/docs/swagger" // generated swagger docs
)

const requestTimeout = 30 * time.Second

type routerDeps struct {
	ingest    *ingest.Handler
	query     *query.Handler
	sockets   http.Handler
	ready     func(ctx context.Context) error
	accessLog func(http.Handler) http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.accessLog != nil {
		r.Use(d.accessLog)
	}

	// Live channel; long-lived, so it stays outside the request timeout.
	r.Handle("/ws", d.sockets)

	r.Route("/services/v1", func(r chi.Router) {
		// Ingestion is not bounded by requestTimeout; each write carries
		// INGEST_WRITE_TIMEOUT.
		r.Post("/telemetry/kubos", d.ingest.InsertOne)
		r.Post("/telemetry/kubos/batch", d.ingest.InsertBatch)
		r.Post("/simulation/telemetry/kubos/{nTimes}", d.ingest.Simulate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			// Reads.
			r.Get("/telemetry/kubos", d.query.GetAll)
			r.Get("/telemetry/kubos/{deviceId}/{nLimit}", d.query.GetByDeviceLimit)
			r.Get("/telemetry/{deviceId}/{fromTS}/{toTS}", d.query.GetByDeviceRange)

			// Admin metrics.
			r.Get("/admin/metrics/telemetry/total/all", d.query.CountAll)
			r.Get("/admin/metrics/telemetry/total/{deviceId}", d.query.CountByDevice)
			r.Get("/admin/metrics/telemetry/total/{deviceId}/{fromTS}/{toTS}", d.query.CountByDeviceRange)
			r.Get("/admin/metrics/trend/telemetry/all", d.query.TrendAll)
			r.Get("/admin/metrics/trend/telemetry/{nLimit}", d.query.TrendTopN)
			r.Get("/admin/metrics/trend/telemetry/by/{deviceId}", d.query.TrendByDevice)
			r.Get("/admin/metrics/trend/telemetry/{deviceId}/{nLimit}", d.query.TrendByDeviceTopN)
			r.Post("/admin/cleanup/telemetry", d.query.DropAll)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		// Health probes.
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			envelope.WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Service: serviceName})
		})
		r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
			if err := d.ready(r.Context()); err != nil {
				envelope.WriteJSON(w, http.StatusServiceUnavailable,
					models.HealthResponse{Status: "unavailable", Service: serviceName})
				return
			}
			envelope.WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ready", Service: serviceName})
		})
		r.Get("/verifyMe", verifyMe)

		// Swagger UI.
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	})

	return r
}

// verifyMe godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/verifyMe [get]
func verifyMe(w http.ResponseWriter, _ *http.Request) {
	envelope.WriteJSON(w, http.StatusOK, map[string]string{"message": "IoT platform is alive"})
}
