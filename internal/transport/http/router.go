// Package httptransport exposes the service's operational HTTP surface.
// The resolver owns no request/response API; only health and metrics are served.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bpagent/internal/platform/health"
	"bpagent/internal/platform/middleware"
)

// NewRouter wires the operational endpoints with middleware.
func NewRouter(healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
