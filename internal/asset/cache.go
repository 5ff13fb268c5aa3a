package asset

import (
	"container/list"
	"log"
	"sync"
)

// DefaultLimit is the default number of decoded images kept in memory.
const DefaultLimit = 10

// Catalog resolves a watch identifier to the overlay image file on disk.
// Implementations report an error for unknown identifiers; the cache
// substitutes a placeholder in that case.
type Catalog interface {
	ImagePath(id string) (string, error)
}

// Cache holds decoded watch images keyed by catalog identifier.
// Images are decoded on first use and shared read-only by all sessions.
// The cache is bounded: when more than limit distinct assets are resolved,
// the least-recently-used decoded image is dropped from the index. A
// dropped image is not freed while the process runs, since a session may
// still hold a reference to it; re-resolving simply decodes again.
type Cache struct {
	catalog Catalog
	limit   int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List // front = most recently used, values are *cacheEntry
}

type cacheEntry struct {
	asset *Asset
	elem  *list.Element
}

// NewCache creates a Cache over the given catalog. A limit <= 0 falls back
// to DefaultLimit.
func NewCache(catalog Catalog, limit int) *Cache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Cache{
		catalog: catalog,
		limit:   limit,
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
	}
}

// Get returns the decoded asset for the given identifier. It never fails:
// unknown identifiers and unreadable files yield a placeholder asset so a
// session never breaks on a bad catalog entry.
func (c *Cache) Get(id string) *Asset {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok {
		c.order.MoveToFront(e.elem)
		return e.asset
	}

	a := c.resolve(id)
	e := &cacheEntry{asset: a}
	e.elem = c.order.PushFront(e)
	c.entries[id] = e

	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		evicted := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.asset.ID)
	}

	return a
}

// resolve decodes the catalog image for id, falling back to a placeholder.
// Called with the lock held; decode latency on a miss stalls concurrent
// lookups, which keeps at most one decode in flight per key.
func (c *Cache) resolve(id string) *Asset {
	path, err := c.catalog.ImagePath(id)
	if err != nil {
		log.Printf("asset %s: catalog lookup failed (%v), using placeholder", id, err)
		return newPlaceholder(id)
	}

	a, err := load(id, path)
	if err != nil {
		log.Printf("asset %s: %v, using placeholder", id, err)
		return newPlaceholder(id)
	}
	return a
}

// Invalidate drops the cached image for the given identifier. The next Get
// decodes it again, picking up a replaced catalog image.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok {
		c.order.Remove(e.elem)
		delete(c.entries, id)
	}
}

// InvalidatePath drops any cached image decoded from the given file path.
func (c *Cache) InvalidatePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.entries {
		if e.asset.SourcePath == path {
			c.order.Remove(e.elem)
			delete(c.entries, id)
		}
	}
}

// Len returns the number of decoded images currently indexed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close releases all decoded images. Call only after all sessions using
// the cache have finished.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.entries {
		e.asset.Close()
		delete(c.entries, id)
	}
	c.order.Init()
}
