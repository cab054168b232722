package bookmarks

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-process map. Individual operations
// are safe for concurrent use; Toggle's read-then-write pair is not atomic.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string][]string
}

// NewMemoryStore creates an empty in-memory bookmark store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string][]string)}
}

func (s *MemoryStore) Add(ctx context.Context, user, stationCode string) error {
	if user == "" || stationCode == "" {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, code := range s.users[user] {
		if code == stationCode {
			return nil
		}
	}
	s.users[user] = append(s.users[user], stationCode)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, user, stationCode string) error {
	if user == "" || stationCode == "" {
		return ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	codes := s.users[user]
	for i, code := range codes {
		if code == stationCode {
			s.users[user] = append(codes[:i], codes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) IsBookmarked(ctx context.Context, user, stationCode string) (bool, error) {
	if user == "" || stationCode == "" {
		return false, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, code := range s.users[user] {
		if code == stationCode {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) List(ctx context.Context, user string) ([]string, error) {
	if user == "" {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, len(s.users[user]))
	copy(codes, s.users[user])
	return codes, nil
}
