// Command chartd serves aggregated groundwater chart data.
//
// chartd sits between mobile clients and the India-WRIS groundwater APIs.
// For each request it validates the untrusted upstream readings, buckets
// them according to the requested range selector, computes summary
// statistics, and caches the resulting snapshot so repeat requests for the
// same station and range are served without refetching.
//
// The HTTP API provides:
//   - GET /stations/{code}                - Station metadata
//   - GET /stations/{code}/chart          - Chart snapshot for a range selector
//   - GET /stations/{code}/chart/seasonal - Four-season aggregation
//   - GET /bookmarks and friends          - Per-user station bookmarks
//   - GET /healthz                        - Health check endpoint
//   - GET /metrics                        - Prometheus metrics endpoint
//
// Usage:
//
//	chartd -listen=:8080 -storage=redis -redis-addr=redis:6379
//
// Environment variables:
//
//	LISTEN         - HTTP listen address (default: :8080)
//	WRIS_URL       - India-WRIS API base URL
//	DATASET        - Dataset code (default: GWATERLVL)
//	STORAGE        - Snapshot store backend: memory or redis (default: memory)
//	CACHE_TTL      - Snapshot freshness window (default: 10m)
//	REDIS_ADDR     - Redis server address
//	LOG_LEVEL      - Logging level: debug, info, warn, error (default: info)
//	LOG_FORMAT     - Logging format: text, json (default: text)
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groundwatch/groundwatch/cmd/chartd/config"
	"github.com/groundwatch/groundwatch/cmd/chartd/logger"
	"github.com/groundwatch/groundwatch/cmd/chartd/metrics"
	"github.com/groundwatch/groundwatch/cmd/chartd/router"
	"github.com/groundwatch/groundwatch/cmd/chartd/store"
	"github.com/groundwatch/groundwatch/pkg/httpx"
	gwtls "github.com/groundwatch/groundwatch/pkg/tls"
	"github.com/groundwatch/groundwatch/pkg/wris"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()

	log := logger.New(cfg)
	slog.SetDefault(log)

	log.Info("starting groundwatch chartd",
		"version", version,
		"listen", cfg.Listen,
		"wris_url", cfg.WRISBaseURL,
		"storage", cfg.Storage,
		"cache_ttl", cfg.CacheTTL,
	)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	httpClient, err := httpx.NewClient(gwtls.Config{}, cfg.FetchTimeout)
	if err != nil {
		log.Error("failed to create upstream client", "error", err)
		os.Exit(1)
	}

	client := &wris.Client{
		BaseURL:    cfg.WRISBaseURL,
		Dataset:    cfg.Dataset,
		HTTPClient: httpClient,
	}

	snapshots, err := store.NewSnapshots(cfg, log)
	if err != nil {
		log.Error("failed to create snapshot store", "error", err)
		os.Exit(1)
	}
	if closer, ok := snapshots.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("failed to close snapshot store", "error", err)
			}
		}()
	}
	if stopper, ok := snapshots.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	marks, err := store.NewBookmarks(cfg, log)
	if err != nil {
		log.Error("failed to create bookmark store", "error", err)
		os.Exit(1)
	}

	svc := NewService(client, client, snapshots, cfg.CacheTTL, log, metrics.New())

	staleAfter := 2 * cfg.CacheTTL // Snapshot is stale if older than 2x the freshness window
	mux := router.SetupRoutes(svc, marks, staleAfter, log)
	handler := httpx.RecoveryMiddleware(log)(httpx.LoggingMiddleware(log)(mux))
	httpServer := httpx.NewServer(cfg.Listen, handler, log)

	serverErr := make(chan error, 1)
	go func() {
		if cfg.TLS.Enabled {
			tlsConfig, err := gwtls.NewServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.CAFile)
			if err != nil {
				serverErr <- err
				return
			}
			httpServer.SetTLSConfig(tlsConfig)
			serverErr <- httpServer.StartTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
			return
		}
		serverErr <- httpServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	log.Info("shutting down")

	if err := httpServer.Stop(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
