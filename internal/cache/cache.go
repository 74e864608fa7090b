// Package cache provides a thread-safe, capacity-bounded cache with
// least-recently-used eviction. Entries carry a caller-declared size
// in abstract capacity units (typically bytes); when an insertion
// would push the summed size past the capacity, the least recently
// used entries are evicted and registered listeners are notified for
// each one.
package cache

import (
	"container/list"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener is notified for every entry the cache evicts. Eviction is
// the only path that notifies; explicit Remove does not. Listener
// values must be comparable (a pointer type works) for RemoveListener
// to find them.
type Listener[K comparable, V any] interface {
	EntryEvicted(key K, value V)
}

// ListenerFunc adapts a function to the Listener interface. Func
// listeners cannot be removed individually.
type ListenerFunc[K comparable, V any] func(key K, value V)

func (f ListenerFunc[K, V]) EntryEvicted(key K, value V) { f(key, value) }

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits         int64
	Misses       int64
	Evictions    int64
	UsedCapacity int64
	Capacity     int64
	Entries      int
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// Cache is a size-weighted LRU cache. Recency order is maintained
// structurally: a successful Get moves the entry to the front, ties
// between untouched entries resolve by insertion order, and eviction
// always takes the back.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*list.Element
	lru     *list.List // front is most recently used

	capacity atomic.Int64
	lowWater atomic.Int64
	used     atomic.Int64

	listenersMu sync.Mutex
	listeners   atomic.Pointer[[]Listener[K, V]]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	log *slog.Logger
}

// New returns a cache holding at most capacity units. The low water
// level defaults to the capacity, meaning eviction frees only what the
// incoming entry needs.
func New[K comparable, V any](capacity int64) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]*list.Element),
		lru:     list.New(),
	}
	c.capacity.Store(capacity)
	c.lowWater.Store(capacity)
	return c
}

// SetLogger directs anomaly reports (rejected entries, listener
// panics) to l. The cache is silent by default.
func (c *Cache[K, V]) SetLogger(l *slog.Logger) {
	c.log = l
}

func (c *Cache[K, V]) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

// SetLowWater sets the usage level eviction compacts down to when the
// capacity is exceeded. A level at or above the capacity disables the
// extra compaction. Lowering it does not evict immediately.
func (c *Cache[K, V]) SetLowWater(n int64) {
	c.lowWater.Store(n)
}

// Add inserts value under key, evicting least-recently-used entries
// first if the insertion would exceed the capacity. An entry larger
// than the whole capacity is rejected rather than admitted by evicting
// everything else. Adding an existing key replaces the old value
// silently. Reports whether the entry was admitted.
func (c *Cache[K, V]) Add(key K, value V, size int64) bool {
	capacity := c.capacity.Load()
	if size <= 0 || size > capacity {
		c.logger().Warn("cache: entry rejected", "size", size, "capacity", capacity)
		return false
	}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		old := el.Value.(*entry[K, V])
		c.used.Add(-old.size)
		c.lru.Remove(el)
		delete(c.entries, key)
	}

	evicted := c.evictLocked(size)

	el := c.lru.PushFront(&entry[K, V]{key: key, value: value, size: size})
	c.entries[key] = el
	c.used.Add(size)
	c.mu.Unlock()

	c.notifyEvicted(evicted)
	return true
}

// evictLocked frees room for incoming units, returning the evicted
// entries oldest first. Must be called with mu held.
func (c *Cache[K, V]) evictLocked(incoming int64) []*entry[K, V] {
	target := c.capacity.Load()
	if lw := c.lowWater.Load(); lw < target && c.used.Load()+incoming > target {
		target = lw
	}

	var evicted []*entry[K, V]
	for c.used.Load()+incoming > target {
		back := c.lru.Back()
		if back == nil {
			break
		}
		e := back.Value.(*entry[K, V])
		c.lru.Remove(back)
		delete(c.entries, e.key)
		c.used.Add(-e.size)
		c.evictions.Add(1)
		evicted = append(evicted, e)
	}
	return evicted
}

// notifyEvicted runs each registered listener for each evicted entry.
// A panicking listener is logged and does not stop the remaining
// notifications. The listener list is snapshotted, so concurrent
// AddListener/RemoveListener calls do not affect an in-flight pass.
func (c *Cache[K, V]) notifyEvicted(evicted []*entry[K, V]) {
	if len(evicted) == 0 {
		return
	}
	snapshot := c.listeners.Load()
	if snapshot == nil {
		return
	}
	for _, e := range evicted {
		for _, l := range *snapshot {
			c.notifyOne(l, e)
		}
	}
}

func (c *Cache[K, V]) notifyOne(l Listener[K, V], e *entry[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			c.logger().Warn("cache: eviction listener panicked", "key", e.key, "error", r)
		}
	}()
	l.EntryEvicted(e.key, e.value)
}

// Get returns the value stored under key and marks it most recently
// used. The touch is atomic with respect to eviction: an entry cannot
// be evicted while a Get on it is in flight.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(el)
	value := el.Value.(*entry[K, V]).value
	c.mu.Unlock()
	c.hits.Add(1)
	return value, true
}

// Contains reports whether key is present without touching its
// recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Remove deletes key without notifying eviction listeners; callers
// needing cleanup on explicit removal must perform it themselves. The
// removed value is returned when present.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	c.lru.Remove(el)
	delete(c.entries, key)
	c.used.Add(-e.size)
	return e.value, true
}

// Clear evicts every entry, notifying listeners for each.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	var evicted []*entry[K, V]
	for back := c.lru.Back(); back != nil; back = c.lru.Back() {
		e := back.Value.(*entry[K, V])
		c.lru.Remove(back)
		delete(c.entries, e.key)
		c.used.Add(-e.size)
		c.evictions.Add(1)
		evicted = append(evicted, e)
	}
	c.mu.Unlock()

	c.notifyEvicted(evicted)
}

// SetCapacity changes the capacity. Shrinking below current usage
// evicts immediately, compacting to the new capacity or, when a lower
// low-water level is configured, down to that level.
func (c *Cache[K, V]) SetCapacity(n int64) {
	c.capacity.Store(n)
	c.mu.Lock()
	evicted := c.evictLocked(0)
	c.mu.Unlock()
	c.notifyEvicted(evicted)
}

// Capacity returns the configured capacity in units.
func (c *Cache[K, V]) Capacity() int64 {
	return c.capacity.Load()
}

// UsedCapacity returns the summed size of present entries.
func (c *Cache[K, V]) UsedCapacity() int64 {
	return c.used.Load()
}

// FreeCapacity returns the units available before eviction would run.
func (c *Cache[K, V]) FreeCapacity() int64 {
	free := c.capacity.Load() - c.used.Load()
	if free < 0 {
		return 0
	}
	return free
}

// Len returns the number of present entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// AddListener registers l for eviction notifications.
func (c *Cache[K, V]) AddListener(l Listener[K, V]) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	var next []Listener[K, V]
	if cur := c.listeners.Load(); cur != nil {
		next = append(next, *cur...)
	}
	next = append(next, l)
	c.listeners.Store(&next)
}

// RemoveListener unregisters the first listener equal to l. An
// in-flight notification pass keeps its snapshot.
func (c *Cache[K, V]) RemoveListener(l Listener[K, V]) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	cur := c.listeners.Load()
	if cur == nil {
		return
	}
	next := make([]Listener[K, V], 0, len(*cur))
	removed := false
	for _, existing := range *cur {
		if !removed && existing == l {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	c.listeners.Store(&next)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Evictions:    c.evictions.Load(),
		UsedCapacity: c.used.Load(),
		Capacity:     c.capacity.Load(),
		Entries:      c.Len(),
	}
}
