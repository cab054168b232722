// Package store selects and constructs the snapshot and bookmark backends
// from configuration.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/groundwatch/groundwatch/cmd/chartd/config"
	"github.com/groundwatch/groundwatch/pkg/bookmarks"
	"github.com/groundwatch/groundwatch/pkg/storage"
)

// NewSnapshots builds the snapshot store named by cfg.Storage.
func NewSnapshots(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage {
	case "redis":
		logger.Info("using redis snapshot store", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.RedisTTL)
		return storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
	case "memory":
		// Same retention as the redis backend; expired entries are swept
		// once a minute.
		logger.Info("using in-memory snapshot store", "ttl", cfg.RedisTTL)
		return storage.NewMemoryStoreWithTTL(cfg.RedisTTL, time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// NewBookmarks builds the bookmark store on the same backend as snapshots.
func NewBookmarks(cfg *config.Config, logger *slog.Logger) (bookmarks.Store, error) {
	switch cfg.Storage {
	case "redis":
		return bookmarks.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return bookmarks.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
