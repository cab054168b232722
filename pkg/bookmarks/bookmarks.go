// Package bookmarks stores each user's set of bookmarked station codes.
//
// This is a sibling feature to the chart pipeline, not part of it: a plain
// document-shaped read/write store with memory and Redis backends. Toggle is
// deliberately a read-then-write sequence without a transaction; two rapid
// toggles for the same user can race and leave the flag in either state,
// which is acceptable for a per-user UI flag and demonstrated by a test.
package bookmarks

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned when a user ID or station code is empty.
var ErrInvalidKey = errors.New("bookmarks: user and station code are required")

// Store manages per-user bookmarked station sets.
type Store interface {
	// Add bookmarks a station for a user. Adding an existing bookmark is a no-op.
	Add(ctx context.Context, user, stationCode string) error
	// Remove deletes a bookmark. Removing a missing bookmark is a no-op.
	Remove(ctx context.Context, user, stationCode string) error
	// IsBookmarked reports whether the user has bookmarked the station.
	IsBookmarked(ctx context.Context, user, stationCode string) (bool, error)
	// List returns the user's bookmarked station codes in insertion order
	// where the backend preserves it.
	List(ctx context.Context, user string) ([]string, error)
}

// Toggle flips a bookmark with a read followed by a write. There is no
// transaction around the pair.
func Toggle(ctx context.Context, s Store, user, stationCode string) (bookmarked bool, err error) {
	exists, err := s.IsBookmarked(ctx, user, stationCode)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.Remove(ctx, user, stationCode)
	}
	return true, s.Add(ctx, user, stationCode)
}
