// Package gpu specializes the generic memory cache for GPU resource
// handles. Evicted resources are destroyed through an explicitly
// injected rendering context; when no context is active the handle is
// abandoned rather than blocking eviction.
package gpu

// Context exposes the native deletion calls the eviction destructor
// needs. Implementations bind to whatever graphics API owns the
// handles.
type Context interface {
	DeleteTexture(id uint32)
	DeleteBuffers(ids []uint32)
	DeleteLists(base uint32, count int)
}

// ContextProvider returns the rendering context currently active on
// the calling goroutine, or nil when there is none. It is injected at
// cache construction instead of being read from global state.
type ContextProvider func() Context

// Texture is a cached texture handle. Implementations report their
// own memory footprint and know how to destroy themselves.
type Texture interface {
	Width() int
	Height() int
	// EstimatedMemorySize returns the texture's memory footprint in
	// bytes, or a non-positive value when the implementation cannot
	// tell.
	EstimatedMemorySize() int
	// Dispose deletes the native texture through ctx.
	Dispose(ctx Context)
}

// Resource is the closed set of cacheable GPU resource kinds:
// TextureResource, VertexBufferIDs and DisplayListIDs. The eviction
// destructor matches over exactly these three.
type Resource interface {
	isResource()
}

// TextureResource wraps a Texture for caching.
type TextureResource struct {
	Texture Texture
}

func (TextureResource) isResource() {}

// VertexBufferIDs is a set of native vertex buffer handles cached as
// one entry.
type VertexBufferIDs []uint32

func (VertexBufferIDs) isResource() {}

// DisplayListIDs identifies a contiguous range of native display
// lists.
type DisplayListIDs struct {
	Base  uint32
	Count int
}

func (DisplayListIDs) isResource() {}
