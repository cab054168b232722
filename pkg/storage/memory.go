package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/groundwatch/groundwatch/pkg/chartdata"
)

// MemoryStore implements an in-memory snapshot store. It is safe for
// concurrent use by multiple goroutines.
//
// With a TTL configured, a background goroutine removes snapshots older
// than the TTL so that a station nobody looks at anymore does not pin its
// chart forever. Single-instance deployments can use this store as the
// chart cache directly; multi-instance deployments should use RedisStore.
type MemoryStore struct {
	mu            sync.RWMutex
	snapshots     map[string]Snapshot
	ttl           time.Duration
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	cleanupDone   chan struct{}
	stopped       bool
	stopMu        sync.Mutex
}

// NewMemoryStore creates an in-memory snapshot store with no TTL.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]Snapshot),
	}
}

// NewMemoryStoreWithTTL creates an in-memory snapshot store with automatic
// TTL-based cleanup. The cleanup goroutine must be stopped with Stop() when
// the store is no longer needed.
func NewMemoryStoreWithTTL(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		panic("TTL must be positive")
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	store := &MemoryStore{
		snapshots:     make(map[string]Snapshot),
		ttl:           ttl,
		cleanupTicker: time.NewTicker(cleanupInterval),
		stopCleanup:   make(chan struct{}),
		cleanupDone:   make(chan struct{}),
	}

	go store.runCleanup()

	return store
}

// Stop shuts down the background cleanup goroutine. Calling Stop multiple
// times, or on a store without TTL, is safe and does nothing.
func (s *MemoryStore) Stop() {
	if s.cleanupTicker == nil {
		return
	}

	s.stopMu.Lock()
	defer s.stopMu.Unlock()

	if s.stopped {
		return
	}

	close(s.stopCleanup)
	<-s.cleanupDone
	s.cleanupTicker.Stop()
	s.stopped = true
}

func (s *MemoryStore) runCleanup() {
	defer close(s.cleanupDone)

	for {
		select {
		case <-s.cleanupTicker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, snapshot := range s.snapshots {
		if now.Sub(snapshot.GeneratedAt) > s.ttl {
			delete(s.snapshots, key)
		}
	}
}

func snapshotKey(stationCode string, sel chartdata.Selector) string {
	return stationCode + "/" + string(sel)
}

// Put stores a snapshot, replacing any existing snapshot for the same
// station and range. Safe for concurrent use.
func (s *MemoryStore) Put(ctx context.Context, snapshot Snapshot) error {
	if snapshot.StationCode == "" {
		return fmt.Errorf("snapshot station code cannot be empty")
	}
	if snapshot.Range == "" {
		return fmt.Errorf("snapshot range cannot be empty")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshotKey(snapshot.StationCode, snapshot.Range)] = snapshot
	return nil
}

// GetLatest retrieves the stored snapshot for a station and range.
// The second return value reports whether one exists.
func (s *MemoryStore) GetLatest(ctx context.Context, stationCode string, sel chartdata.Selector) (Snapshot, bool, error) {
	select {
	case <-ctx.Done():
		return Snapshot{}, false, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, found := s.snapshots[snapshotKey(stationCode, sel)]
	return snapshot, found, nil
}

// Len returns the number of snapshots currently stored. Primarily useful
// for tests and metrics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Delete removes the snapshot for a station and range, reporting whether
// one existed.
func (s *MemoryStore) Delete(stationCode string, sel chartdata.Selector) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := snapshotKey(stationCode, sel)
	_, existed := s.snapshots[key]
	delete(s.snapshots, key)
	return existed
}
