// Package router configures HTTP routes for the alertd HTTP API.
//
// Routes configured:
//   - GET /alerts  - Current classification of every watched station
//   - GET /healthz - Health check endpoint (returns 200 OK)
//   - GET /metrics - Prometheus metrics endpoint
package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groundwatch/groundwatch/pkg/httpx"
)

// SetupRoutes configures the HTTP endpoints for alertd. The alerts handler
// is built by the watcher, which owns the alert state.
func SetupRoutes(alerts http.Handler, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /alerts", alerts)
	mux.Handle("GET /healthz", httpx.HealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
