package gpu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeContext records native deletion calls.
type fakeContext struct {
	mu               sync.Mutex
	deletedTextures  []uint32
	deletedBuffers   [][]uint32
	deletedListBases []uint32
}

func (f *fakeContext) DeleteTexture(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedTextures = append(f.deletedTextures, id)
}

func (f *fakeContext) DeleteBuffers(ids []uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedBuffers = append(f.deletedBuffers, ids)
}

func (f *fakeContext) DeleteLists(base uint32, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedListBases = append(f.deletedListBases, base)
}

// fakeTexture implements Texture with a configurable size report.
type fakeTexture struct {
	id       uint32
	width    int
	height   int
	reported int
}

func (t *fakeTexture) Width() int               { return t.width }
func (t *fakeTexture) Height() int              { return t.height }
func (t *fakeTexture) EstimatedMemorySize() int { return t.reported }
func (t *fakeTexture) Dispose(ctx Context)      { ctx.DeleteTexture(t.id) }

func always(ctx Context) ContextProvider {
	return func() Context { return ctx }
}

func TestEvictionDestroysByKind(t *testing.T) {
	ctx := &fakeContext{}
	c := New(100, always(ctx), nil)

	require.True(t, c.Put("tex", TextureResource{Texture: &fakeTexture{id: 7}}, 40))
	require.True(t, c.Put("vbo", VertexBufferIDs{11, 12}, 40))
	// Overflow compacts to the low water level (80), evicting the
	// oldest entry.
	require.True(t, c.Put("list", DisplayListIDs{Base: 5, Count: 2}, 40))

	require.Equal(t, []uint32{7}, ctx.deletedTextures)
	require.Empty(t, ctx.deletedBuffers)
	require.Empty(t, ctx.deletedListBases)

	c.Clear()
	require.Equal(t, [][]uint32{{11, 12}}, ctx.deletedBuffers)
	require.Equal(t, []uint32{5}, ctx.deletedListBases)
}

func TestNoContextAbandonsResource(t *testing.T) {
	c := New(50, func() Context { return nil }, nil)

	require.True(t, c.Put("a", VertexBufferIDs{1}, 30))
	require.True(t, c.Put("b", VertexBufferIDs{2}, 30))

	// The eviction of "a" must not panic or block; the handle is
	// simply dropped.
	require.False(t, c.Contains("a"))
	require.True(t, c.Contains("b"))
}

func TestPutTextureSizeFallback(t *testing.T) {
	ctx := &fakeContext{}
	c := New(1<<20, always(ctx), nil)

	reported := &fakeTexture{id: 1, width: 4, height: 4, reported: 1000}
	require.True(t, c.PutTexture("reported", reported))
	require.Equal(t, int64(1000), c.UsedCapacity())

	_, ok := c.Remove("reported")
	require.True(t, ok)

	// Non-positive reports fall back to width*height*4.
	unreported := &fakeTexture{id: 2, width: 16, height: 8, reported: 0}
	require.True(t, c.PutTexture("fallback", unreported))
	require.Equal(t, int64(16*8*4), c.UsedCapacity())
}

func TestTypedGetters(t *testing.T) {
	c := New(1000, func() Context { return nil }, nil)

	tex := &fakeTexture{id: 3, width: 2, height: 2, reported: 16}
	require.True(t, c.PutTexture("tex", tex))
	require.True(t, c.Put("vbo", VertexBufferIDs{9}, 10))
	require.True(t, c.Put("list", DisplayListIDs{Base: 4, Count: 1}, 10))

	got, ok := c.GetTexture("tex")
	require.True(t, ok)
	require.Equal(t, tex, got)

	vbo, ok := c.GetVertexBuffers("vbo")
	require.True(t, ok)
	require.Equal(t, VertexBufferIDs{9}, vbo)

	lists, ok := c.GetDisplayLists("list")
	require.True(t, ok)
	require.Equal(t, DisplayListIDs{Base: 4, Count: 1}, lists)

	// Kind-mismatched lookups miss instead of panicking.
	_, ok = c.GetTexture("vbo")
	require.False(t, ok)
}

func TestRemoveSkipsDestructor(t *testing.T) {
	ctx := &fakeContext{}
	c := New(100, always(ctx), nil)

	require.True(t, c.Put("tex", TextureResource{Texture: &fakeTexture{id: 9}}, 40))
	r, ok := c.Remove("tex")
	require.True(t, ok)
	require.IsType(t, TextureResource{}, r)
	require.Empty(t, ctx.deletedTextures, "explicit removal hands the handle back to the caller")
}

func TestSetCapacityEvicts(t *testing.T) {
	ctx := &fakeContext{}
	c := New(100, always(ctx), nil)

	require.True(t, c.Put("a", TextureResource{Texture: &fakeTexture{id: 1}}, 40))
	require.True(t, c.Put("b", TextureResource{Texture: &fakeTexture{id: 2}}, 40))

	c.SetCapacity(40)
	require.LessOrEqual(t, c.UsedCapacity(), int64(40))
	require.NotEmpty(t, ctx.deletedTextures)
}