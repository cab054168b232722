package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis set per user, keyed
// "groundwatch:bookmarks:{user}". Sets give idempotent add/remove for free;
// insertion order is not preserved.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed bookmark store and verifies the
// connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func userKey(user string) string {
	return "groundwatch:bookmarks:" + user
}

func (s *RedisStore) Add(ctx context.Context, user, stationCode string) error {
	if user == "" || stationCode == "" {
		return ErrInvalidKey
	}
	return s.client.SAdd(ctx, userKey(user), stationCode).Err()
}

func (s *RedisStore) Remove(ctx context.Context, user, stationCode string) error {
	if user == "" || stationCode == "" {
		return ErrInvalidKey
	}
	return s.client.SRem(ctx, userKey(user), stationCode).Err()
}

func (s *RedisStore) IsBookmarked(ctx context.Context, user, stationCode string) (bool, error) {
	if user == "" || stationCode == "" {
		return false, ErrInvalidKey
	}
	return s.client.SIsMember(ctx, userKey(user), stationCode).Result()
}

func (s *RedisStore) List(ctx context.Context, user string) ([]string, error) {
	if user == "" {
		return nil, ErrInvalidKey
	}
	return s.client.SMembers(ctx, userKey(user)).Result()
}

// Close releases the Redis client's resources.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
