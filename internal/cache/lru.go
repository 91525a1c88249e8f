package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/simgo/internal/resource"
)

// LRU is a cost-bounded least-recently-used cache. The cost of a value is
// supplied on Set and charged against both the cache capacity and, when
// configured, the memory budget of a resource.Controller.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List
	rc        *resource.Controller
	onEvict   func(key K, cost int64)

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	rejected  atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	cost  int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Rejected  int64
	Size      int64
	Entries   int
}

// NewLRU creates a new LRU cache with the given capacity in cost units
// (bytes). If rc is provided, it will be used to track memory usage.
func NewLRU[K comparable, V any](capacity int64, rc *resource.Controller) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// OnEvict registers a callback invoked, under the cache lock, whenever an
// entry is evicted to make room.
func (c *LRU[K, V]) OnEvict(fn func(key K, cost int64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns a cached value.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches value with the given cost. It reports whether the value was
// admitted: values larger than the capacity, or that the resource
// controller cannot fit, are not cached.
func (c *LRU[K, V]) Set(key K, value V, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	if cost > c.capacity {
		c.rejected.Add(1)
		return false
	}

	// Evict locally first so the released memory is available to the
	// controller again.
	for c.size+cost > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.evict(back)
	}

	if !c.rc.TryAcquireMemory(cost) {
		c.rejected.Add(1)
		return false
	}

	element := c.evictList.PushFront(&entry[K, V]{key: key, value: value, cost: cost})
	c.items[key] = element
	c.size += cost
	return true
}

// Purge removes every entry and returns its memory to the controller.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.evictList.Len() > 0 {
		c.removeElement(c.evictList.Back())
	}
}

func (c *LRU[K, V]) evict(e *list.Element) {
	kv := e.Value.(*entry[K, V])
	c.removeElement(e)
	c.evictions.Add(1)
	if c.onEvict != nil {
		c.onEvict(kv.key, kv.cost)
	}
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
	c.size -= kv.cost
	c.rc.ReleaseMemory(kv.cost)
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Size returns the current total cost of the cache.
func (c *LRU[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	size, n := c.size, c.evictList.Len()
	c.mu.Unlock()

	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Rejected:  c.rejected.Load(),
		Size:      size,
		Entries:   n,
	}
}
