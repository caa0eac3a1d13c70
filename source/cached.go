package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bizdash/importer"
	"bizdash/storage"
)

// CachedSource serves fetches from a SQLite cache while they are younger
// than TTL. The cache only holds raw cells; every load is normalized again.
type CachedSource struct {
	Inner Source
	Cache *storage.SnapshotCache
	TTL   time.Duration
	// Refresh bypasses the cache for reads; fresh fetches are still stored.
	Refresh bool

	now func() time.Time
}

func NewCachedSource(inner Source, cache *storage.SnapshotCache, ttl time.Duration) *CachedSource {
	return &CachedSource{Inner: inner, Cache: cache, TTL: ttl, now: time.Now}
}

func (s *CachedSource) Key() string {
	return s.Inner.Key()
}

func (s *CachedSource) Fetch(ctx context.Context) (importer.Tables, error) {
	now := s.clock()
	key := s.Inner.Key()

	if !s.Refresh {
		tables, fetchedAt, err := s.Cache.Get(key, s.TTL, now)
		switch {
		case err == nil:
			slog.Debug("source cache hit", "key", key, "fetched_at", fetchedAt)
			return tables, nil
		case errors.Is(err, storage.ErrCacheMiss):
			slog.Debug("source cache miss", "key", key)
		default:
			slog.Warn("source cache read failed", "key", key, "error", err)
		}
	}

	tables, err := s.Inner.Fetch(ctx)
	if err != nil {
		return importer.Tables{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	if _, err := s.Cache.Put(key, tables, now); err != nil {
		slog.Warn("source cache write failed", "key", key, "error", err)
	}
	return tables, nil
}

func (s *CachedSource) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
