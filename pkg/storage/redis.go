// Package storage provides chart snapshot storage implementations.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/groundwatch/groundwatch/pkg/chartdata"
)

// RedisStore implements the Store interface using Redis as a backend.
// It lets multiple chartd instances share one chart cache, with TTL-based
// expiration doing the eviction.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed snapshot store.
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string for no auth)
//   - db: Redis database number (typically 0)
//   - ttl: snapshot expiration (0 uses a default of 15 minutes)
//
// Returns an error if the connection to Redis fails or parameters are invalid.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}

	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func validStationCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range code {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

func redisKey(stationCode string, sel chartdata.Selector) string {
	return fmt.Sprintf("groundwatch:chart:%s:%s", stationCode, sel)
}

// Put stores a snapshot in Redis with TTL-based expiration.
// The key format is "groundwatch:chart:{station}:{range}".
func (r *RedisStore) Put(ctx context.Context, s Snapshot) error {
	if !validStationCode(s.StationCode) {
		return fmt.Errorf("invalid station code %q: only alphanumeric, hyphens, and underscores allowed", s.StationCode)
	}
	if s.Range == "" {
		return errors.New("snapshot range required")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(s.StationCode, s.Range), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in redis: %w", err)
	}

	return nil
}

// GetLatest retrieves the stored snapshot for a station and range.
// A missing key is reported as not found, not as an error.
func (r *RedisStore) GetLatest(ctx context.Context, stationCode string, sel chartdata.Selector) (Snapshot, bool, error) {
	if stationCode == "" {
		return Snapshot{}, false, errors.New("station code required")
	}

	data, err := r.client.Get(ctx, redisKey(stationCode, sel)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return snapshot, true, nil
}

// Ping verifies the Redis connection is alive.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis client's resources.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
