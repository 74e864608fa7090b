package gpu

import (
	"log/slog"

	"github.com/globeviz/texstore/internal/cache"
)

// lowWaterFraction is the usage level eviction compacts down to,
// avoiding repeated evictions on small overflows.
const lowWaterFraction = 0.8

// Cache holds GPU resources keyed by opaque, hashable keys and
// destroys them through the injected context when they are evicted.
// The cache owns the lifetime of admitted resources: callers never
// delete a cached resource directly.
type Cache struct {
	store    *cache.Cache[any, Resource]
	contexts ContextProvider
	log      *slog.Logger
}

// New returns a resource cache bounded to capacity bytes. contexts
// supplies the rendering context at eviction time; it may return nil,
// in which case evicted handles are abandoned. logger may be nil.
func New(capacity int64, contexts ContextProvider, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	store := cache.New[any, Resource](capacity)
	store.SetLowWater(int64(lowWaterFraction * float64(capacity)))
	store.SetLogger(logger)

	c := &Cache{
		store:    store,
		contexts: contexts,
		log:      logger,
	}
	store.AddListener(&destructor{cache: c})
	return c
}

// destructor destroys evicted resources. It is a separate type so the
// cache itself never leaks into the listener list.
type destructor struct {
	cache *Cache
}

// EntryEvicted dispatches on the resource kind and issues the native
// deletion call. With no active context the handle is abandoned: the
// deletion belongs to a rendering thread we must never wait for.
func (d *destructor) EntryEvicted(key any, resource Resource) {
	var ctx Context
	if d.cache.contexts != nil {
		ctx = d.cache.contexts()
	}
	if ctx == nil {
		d.cache.log.Debug("gpu: no active context, abandoning resource", "key", key)
		return
	}

	switch r := resource.(type) {
	case TextureResource:
		r.Texture.Dispose(ctx)
	case VertexBufferIDs:
		ctx.DeleteBuffers(r)
	case DisplayListIDs:
		ctx.DeleteLists(r.Base, r.Count)
	}
}

// Put caches resource under key with an explicit size in bytes.
// Reports whether the resource was admitted.
func (c *Cache) Put(key any, resource Resource, size int64) bool {
	return c.store.Add(key, resource, size)
}

// PutTexture caches texture using its reported memory footprint. A
// non-positive report falls back to width*height*4 bytes, which
// assumes RGBA8 and may misestimate other stored formats.
func (c *Cache) PutTexture(key any, texture Texture) bool {
	size := int64(texture.EstimatedMemorySize())
	if size <= 0 {
		size = int64(texture.Width()) * int64(texture.Height()) * 4
	}
	return c.Put(key, TextureResource{Texture: texture}, size)
}

// GetTexture returns the texture cached under key, if any, marking it
// most recently used.
func (c *Cache) GetTexture(key any) (Texture, bool) {
	if r, ok := c.store.Get(key); ok {
		if tr, ok := r.(TextureResource); ok {
			return tr.Texture, true
		}
	}
	return nil, false
}

// GetVertexBuffers returns the vertex buffer IDs cached under key.
func (c *Cache) GetVertexBuffers(key any) (VertexBufferIDs, bool) {
	if r, ok := c.store.Get(key); ok {
		if ids, ok := r.(VertexBufferIDs); ok {
			return ids, true
		}
	}
	return nil, false
}

// GetDisplayLists returns the display list range cached under key.
func (c *Cache) GetDisplayLists(key any) (DisplayListIDs, bool) {
	if r, ok := c.store.Get(key); ok {
		if ids, ok := r.(DisplayListIDs); ok {
			return ids, true
		}
	}
	return DisplayListIDs{}, false
}

// Contains reports whether key is cached.
func (c *Cache) Contains(key any) bool {
	return c.store.Contains(key)
}

// Remove drops key without destroying the resource; the caller takes
// over the handle's lifetime.
func (c *Cache) Remove(key any) (Resource, bool) {
	return c.store.Remove(key)
}

// Clear evicts everything, destroying each resource if a context is
// active.
func (c *Cache) Clear() {
	c.store.Clear()
}

// SetCapacity rebounds the cache, evicting immediately when shrinking
// below current usage. The low water level scales with the new
// capacity.
func (c *Cache) SetCapacity(capacity int64) {
	c.store.SetLowWater(int64(lowWaterFraction * float64(capacity)))
	c.store.SetCapacity(capacity)
}

// UsedCapacity returns the summed byte size of cached resources.
func (c *Cache) UsedCapacity() int64 {
	return c.store.UsedCapacity()
}

// FreeCapacity returns the bytes available before eviction runs.
func (c *Cache) FreeCapacity() int64 {
	return c.store.FreeCapacity()
}

// Stats returns the underlying cache counters.
func (c *Cache) Stats() cache.Stats {
	return c.store.Stats()
}
