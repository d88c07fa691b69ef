package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/envsafe/backend/internal/domain"
)

// ErrSnapshotNotFound is returned when no snapshot is cached for a key.
var ErrSnapshotNotFound = errors.New("no snapshot cached for location")

// FetchFunc is the single external collaborator of the engine: fetch a
// live snapshot for one coordinate.
type FetchFunc func(ctx context.Context, lat, lon float64, name string) (*domain.LocationSnapshot, error)

// cacheEntry pairs a snapshot with its lazily synthesized hourly
// series. The series is derived from exactly one snapshot, so it lives
// and dies with the entry: a re-fetch replaces the entry wholesale and
// the series is rebuilt on next use.
type cacheEntry struct {
	snap   *domain.LocationSnapshot
	series domain.HourlySeries
}

// SnapshotCache owns every fetched LocationSnapshot, keyed by name or
// 4-decimal coordinates. Concurrent fetches for the same key are
// collapsed into one network call via singleflight, and a monotonic
// version counter lets dependents poll for "anything changed".
//
// Writes happen only on the fetch-completion path; derived computations
// read under the shared lock and treat one recompute pass as a single
// critical section.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	version uint64

	fetch FetchFunc
	group singleflight.Group
}

// NewSnapshotCache creates an empty cache backed by the given fetcher.
func NewSnapshotCache(fetch FetchFunc) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]*cacheEntry),
		fetch:   fetch,
	}
}

// Get returns the cached snapshot for a key, if any.
func (c *SnapshotCache) Get(key string) (*domain.LocationSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.snap, true
}

// GetOrFetch returns the cached snapshot for the derived key or invokes
// the external fetcher exactly once for that key, stores the result and
// bumps the version counter. Concurrent callers for the same in-flight
// key share the one fetch and all resolve to the same snapshot.
func (c *SnapshotCache) GetOrFetch(ctx context.Context, lat, lon float64, name string) (*domain.LocationSnapshot, error) {
	key := domain.CacheKey(lat, lon, name)

	if snap, ok := c.Get(key); ok {
		return snap, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the group: a batch may have landed the key
		// while this caller was queued.
		if snap, ok := c.Get(key); ok {
			return snap, nil
		}

		snap, err := c.fetch(ctx, lat, lon, name)
		if err != nil {
			return nil, fmt.Errorf("cache: fetch failed for %s: %w", key, err)
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry{snap: snap}
		c.version++
		c.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.LocationSnapshot), nil
}

// StoreBatch applies a warm-up batch atomically under a single version
// bump, so dependents observe a consistent snapshot set rather than
// partial updates mid-batch. Nil entries are skipped.
func (c *SnapshotCache) StoreBatch(snaps []*domain.LocationSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := 0
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		key := domain.CacheKey(snap.Lat, snap.Lon, snap.Name)
		c.entries[key] = &cacheEntry{snap: snap}
		stored++
	}
	if stored > 0 {
		c.version++
	}
}

// Series returns the synthesized hourly series for a cached key,
// computing and memoizing it on first use.
func (c *SnapshotCache) Series(key string) (domain.HourlySeries, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && e.series != nil {
		c.mu.RUnlock()
		return e.series, true
	}
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok = c.entries[key]
	if !ok {
		return nil, false
	}
	if e.series == nil {
		e.series = SynthesizeHourlySeries(e.snap)
	}
	return e.series, true
}

// Version returns the monotonic change counter. Dependents compare it
// against the value seen at their last recompute; this is a cooperative
// polling signal, not a push notification.
func (c *SnapshotCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Len reports the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
