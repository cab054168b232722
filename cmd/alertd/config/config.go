// Package config provides configuration parsing and management for alertd.
//
// It handles both command-line flags and environment variables, with flags
// taking precedence over environment variables. The Config struct contains
// all runtime configuration needed by the alert watcher.
//
// Supported configuration sources (in order of precedence):
//  1. Command-line flags
//  2. Environment variables
//  3. Default values
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/groundwatch/groundwatch/pkg/tls"
)

type Config struct {
	Listen        string
	ChartdURL     string
	Stations      []string
	Range         string
	Interval      time.Duration
	CriticalBelow float64
	WarningBelow  float64
	LogFormat     string
	LogLevel      string
	TLS           tls.Config
}

func ParseFlags() *Config {
	cfg := &Config{}
	var stations string

	flag.StringVar(&cfg.Listen, "listen", getEnv("ALERTD_LISTEN", ":8082"), "HTTP listen address")
	flag.StringVar(&cfg.ChartdURL, "chartd-url", getEnv("CHARTD_URL", "http://localhost:8080"), "chartd HTTP endpoint")
	flag.StringVar(&stations, "stations", getEnv("STATIONS", ""), "Comma-separated station codes to watch")
	flag.StringVar(&cfg.Range, "range", getEnv("RANGE", "1D"), "Range selector used for level checks")
	flag.DurationVar(&cfg.Interval, "interval", getEnvDuration("INTERVAL", 10*time.Minute), "Polling interval")
	flag.Float64Var(&cfg.CriticalBelow, "critical-below", getEnvFloat("CRITICAL_BELOW", 7.0), "Water level below which a station is critical (meters)")
	flag.Float64Var(&cfg.WarningBelow, "warning-below", getEnvFloat("WARNING_BELOW", 10.0), "Water level below which a station is a warning (meters)")
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format (text|json)")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	flag.BoolVar(&cfg.TLS.Enabled, "tls-enabled", getEnvBool("TLS_ENABLED", false), "Enable TLS for the chartd client")
	flag.StringVar(&cfg.TLS.CertFile, "tls-cert-file", getEnv("TLS_CERT_FILE", ""), "TLS certificate file")
	flag.StringVar(&cfg.TLS.KeyFile, "tls-key-file", getEnv("TLS_KEY_FILE", ""), "TLS private key file")
	flag.StringVar(&cfg.TLS.CAFile, "tls-ca-file", getEnv("TLS_CA_FILE", ""), "TLS CA certificate file for server verification")

	flag.Parse()

	for _, code := range strings.Split(stations, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			cfg.Stations = append(cfg.Stations, code)
		}
	}

	if len(cfg.Stations) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -stations is required")
		flag.Usage()
		os.Exit(1)
	}

	if cfg.CriticalBelow > cfg.WarningBelow {
		fmt.Fprintln(os.Stderr, "Error: -critical-below must not exceed -warning-below")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
