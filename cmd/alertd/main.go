// Command alertd watches groundwater levels and raises alerts.
//
// alertd polls chartd for a configured set of stations at a fixed interval,
// classifies each station's latest level against critical and warning
// thresholds, and serves the current alert state over HTTP.
//
// Usage:
//
//	alertd -chartd-url=http://chartd:8080 -stations=GW001,GW002 -interval=10m
//
// Environment variables:
//
//	CHARTD_URL     - HTTP endpoint of the chartd service
//	STATIONS       - Comma-separated station codes to watch (required)
//	ALERTD_LISTEN  - HTTP listen address (default: :8082)
//	RANGE          - Range selector used for level checks (default: 1D)
//	INTERVAL       - Polling interval (default: 10m)
//	CRITICAL_BELOW - Critical level threshold in meters (default: 7)
//	WARNING_BELOW  - Warning level threshold in meters (default: 10)
//	LOG_LEVEL      - Logging level: debug, info, warn, error (default: info)
//	LOG_FORMAT     - Logging format: text, json (default: text)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groundwatch/groundwatch/cmd/alertd/config"
	"github.com/groundwatch/groundwatch/cmd/alertd/logger"
	"github.com/groundwatch/groundwatch/cmd/alertd/metrics"
	"github.com/groundwatch/groundwatch/cmd/alertd/router"
	"github.com/groundwatch/groundwatch/pkg/httpx"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()
	log := logger.New(cfg)
	m := metrics.New()

	log.Info("starting groundwatch alertd",
		"version", version,
		"listen", cfg.Listen,
		"chartd_url", cfg.ChartdURL,
		"stations", len(cfg.Stations),
		"interval", cfg.Interval,
	)

	if err := cfg.TLS.Validate(); err != nil {
		log.Error("invalid TLS configuration", "error", err)
		os.Exit(1)
	}

	watcher, err := NewWatcher(cfg.ChartdURL, cfg.Stations, cfg.Range, cfg.CriticalBelow, cfg.WarningBelow, cfg.TLS, log, m)
	if err != nil {
		log.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}

	mux := router.SetupRoutes(watcher.AlertsHandler(), log)
	handler := httpx.RecoveryMiddleware(log)(httpx.LoggingMiddleware(log)(mux))
	httpServer := httpx.NewServer(cfg.Listen, handler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := watcher.Run(ctx, cfg.Interval); err != nil && err != context.Canceled {
			log.Error("alert loop failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
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
	cancel()

	if err := httpServer.Stop(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
