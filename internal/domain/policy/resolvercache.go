package policy

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// resolution is a cached category lookup result.
type resolution struct {
	categoryID uint64
	ok         bool
	ambiguous  bool
}

// lruEntry is a doubly-linked list node for the LRU cache.
type lruEntry struct {
	key        uint64
	resolution resolution
	prev       *lruEntry
	next       *lruEntry
}

// ResolverCache is a bounded, xxhash-keyed LRU cache sitting in front of a
// Snapshot's ResolveCategory lookup. It is a read-through optimization
// only. It does not observe category mutations: an entry stays until it is
// evicted or Clear is called. Neither store adapter constructs one.
type ResolverCache struct {
	mu      sync.Mutex
	entries map[uint64]*lruEntry
	head    *lruEntry
	tail    *lruEntry
	maxSize int
}

// NewResolverCache creates an empty cache holding at most maxSize entries.
func NewResolverCache(maxSize int) *ResolverCache {
	return &ResolverCache{
		entries: make(map[uint64]*lruEntry, maxSize),
		maxSize: maxSize,
	}
}

func cacheKey(recipient string) uint64 {
	return xxhash.Sum64String(recipient)
}

// Get returns a cached resolution for recipient, if present.
func (c *ResolverCache) Get(recipient string) (uint64, bool, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(recipient)
	e, ok := c.entries[key]
	if !ok {
		return 0, false, false, false
	}
	c.moveToHeadLocked(e)
	return e.resolution.categoryID, e.resolution.ok, e.resolution.ambiguous, true
}

// Put stores a resolution for recipient, evicting the least recently used
// entry if the cache is at capacity.
func (c *ResolverCache) Put(recipient string, categoryID uint64, ok, ambiguous bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(recipient)
	res := resolution{categoryID: categoryID, ok: ok, ambiguous: ambiguous}

	if e, exists := c.entries[key]; exists {
		e.resolution = res
		c.moveToHeadLocked(e)
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictTailLocked()
	}
	e := &lruEntry{key: key, resolution: res}
	c.entries[key] = e
	c.pushHeadLocked(e)
}

// Clear empties the cache. Called after any category mutation.
func (c *ResolverCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*lruEntry, c.maxSize)
	c.head = nil
	c.tail = nil
}

func (c *ResolverCache) moveToHeadLocked(e *lruEntry) {
	if c.head == e {
		return
	}
	c.unlinkLocked(e)
	c.pushHeadLocked(e)
}

func (c *ResolverCache) pushHeadLocked(e *lruEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *ResolverCache) unlinkLocked(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *ResolverCache) evictTailLocked() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlinkLocked(c.tail)
}

// CachedSnapshot wraps a Snapshot, serving ResolveCategory through a
// ResolverCache. All other lookups pass through uncached (they are not the
// hot path that resolution is: every rcpt and every recipient in data hits
// ResolveCategory).
type CachedSnapshot struct {
	Snapshot
	cache *ResolverCache
}

// NewCachedSnapshot wraps snap with a resolver cache of the given size.
func NewCachedSnapshot(snap Snapshot, cache *ResolverCache) *CachedSnapshot {
	return &CachedSnapshot{Snapshot: snap, cache: cache}
}

func (c *CachedSnapshot) ResolveCategory(ctx context.Context, recipient string) (uint64, bool, bool, error) {
	if id, ok, ambiguous, hit := c.cache.Get(recipient); hit {
		return id, ok, ambiguous, nil
	}
	id, ok, ambiguous, err := c.Snapshot.ResolveCategory(ctx, recipient)
	if err != nil {
		return 0, false, false, err
	}
	c.cache.Put(recipient, id, ok, ambiguous)
	return id, ok, ambiguous, nil
}
