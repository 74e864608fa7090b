package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu      sync.Mutex
	evicted []string
}

func (r *recordingListener) EntryEvicted(key string, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evicted = append(r.evicted, key)
}

func (r *recordingListener) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.evicted...)
}

func TestAddAndGet(t *testing.T) {
	c := New[string, int](100)

	require.True(t, c.Add("a", 1, 40))
	require.Equal(t, int64(40), c.UsedCapacity())
	require.Equal(t, int64(60), c.FreeCapacity())
	require.True(t, c.Contains("a"))

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("absent")
	require.False(t, ok)
}

func TestLRUEvictionOrder(t *testing.T) {
	c := New[string, int](100)
	listener := &recordingListener{}
	c.AddListener(listener)

	// A, B, C at 40 units each: C forces A (oldest) out.
	require.True(t, c.Add("A", 1, 40))
	require.True(t, c.Add("B", 2, 40))
	require.True(t, c.Add("C", 3, 40))
	require.Equal(t, []string{"A"}, listener.keys())
	require.LessOrEqual(t, c.UsedCapacity(), c.Capacity())

	// Touching B makes C the least recently used.
	_, ok := c.Get("B")
	require.True(t, ok)
	require.True(t, c.Add("D", 4, 40))
	require.Equal(t, []string{"A", "C"}, listener.keys())
	require.True(t, c.Contains("B"))
	require.True(t, c.Contains("D"))
}

func TestCapacityInvariant(t *testing.T) {
	c := New[int, int](100)
	expected := map[int]int64{}
	sizes := []int64{30, 50, 20, 40, 10, 60, 25, 35}

	c.AddListener(ListenerFunc[int, int](func(key, _ int) {
		delete(expected, key)
	}))

	for i, size := range sizes {
		require.True(t, c.Add(i, i, size))
		expected[i] = size

		var sum int64
		for _, s := range expected {
			sum += s
		}
		require.LessOrEqual(t, c.UsedCapacity(), c.Capacity(), "after add %d", i)
		require.Equal(t, sum, c.UsedCapacity(), "after add %d", i)
	}
}

func TestOversizedEntryRejected(t *testing.T) {
	c := New[string, int](100)
	listener := &recordingListener{}
	c.AddListener(listener)

	require.True(t, c.Add("keep", 1, 90))
	require.False(t, c.Add("huge", 2, 101), "an oversized entry must never be admitted")
	require.False(t, c.Add("zero", 3, 0))

	// Nothing was evicted to make room for the rejected entry.
	require.Empty(t, listener.keys())
	require.True(t, c.Contains("keep"))
	require.Equal(t, int64(90), c.UsedCapacity())
}

func TestEvictionNotifiesExactlyOnce(t *testing.T) {
	c := New[string, int](50)
	listener := &recordingListener{}
	c.AddListener(listener)

	require.True(t, c.Add("a", 1, 30))
	require.True(t, c.Add("b", 2, 30)) // evicts a
	require.Equal(t, []string{"a"}, listener.keys())

	// Explicit removal is not an eviction.
	v, ok := c.Remove("b")
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, []string{"a"}, listener.keys())
	require.Zero(t, c.UsedCapacity())
}

func TestReplaceExistingKey(t *testing.T) {
	c := New[string, int](100)
	listener := &recordingListener{}
	c.AddListener(listener)

	require.True(t, c.Add("a", 1, 40))
	require.True(t, c.Add("a", 2, 60))
	require.Equal(t, int64(60), c.UsedCapacity())
	require.Equal(t, 1, c.Len())
	require.Empty(t, listener.keys(), "replacement is silent")

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestClearNotifiesAll(t *testing.T) {
	c := New[string, int](100)
	listener := &recordingListener{}
	c.AddListener(listener)

	require.True(t, c.Add("a", 1, 20))
	require.True(t, c.Add("b", 2, 20))
	c.Clear()

	require.ElementsMatch(t, []string{"a", "b"}, listener.keys())
	require.Zero(t, c.UsedCapacity())
	require.Zero(t, c.Len())
}

func TestSetCapacityShrinks(t *testing.T) {
	c := New[string, int](100)
	listener := &recordingListener{}
	c.AddListener(listener)

	require.True(t, c.Add("a", 1, 40))
	require.True(t, c.Add("b", 2, 40))

	c.SetCapacity(50)
	require.Equal(t, []string{"a"}, listener.keys())
	require.Equal(t, int64(40), c.UsedCapacity())
	require.Equal(t, int64(50), c.Capacity())
}

func TestLowWaterCompaction(t *testing.T) {
	c := New[string, int](100)
	c.SetLowWater(60)

	require.True(t, c.Add("a", 1, 40))
	require.True(t, c.Add("b", 2, 40))
	// 40+40+40 > 100: eviction compacts down to the low water level,
	// not just far enough to fit.
	require.True(t, c.Add("c", 3, 40))

	require.False(t, c.Contains("a"))
	require.False(t, c.Contains("b"))
	require.True(t, c.Contains("c"))
	require.Equal(t, int64(40), c.UsedCapacity())
}

func TestListenerPanicDoesNotAbort(t *testing.T) {
	c := New[string, int](50)
	listener := &recordingListener{}
	c.AddListener(ListenerFunc[string, int](func(key string, _ int) {
		panic("listener failure: " + key)
	}))
	c.AddListener(listener)

	require.True(t, c.Add("a", 1, 30))
	require.True(t, c.Add("b", 2, 30))
	require.True(t, c.Add("c", 3, 30))

	// The panicking listener never stopped the pass or the cache.
	require.Equal(t, []string{"a", "b"}, listener.keys())
	require.True(t, c.Contains("c"))
}

func TestRemoveListener(t *testing.T) {
	c := New[string, int](50)
	first := &recordingListener{}
	second := &recordingListener{}
	c.AddListener(first)
	c.AddListener(second)
	c.RemoveListener(first)

	require.True(t, c.Add("a", 1, 30))
	require.True(t, c.Add("b", 2, 30))

	require.Empty(t, first.keys())
	require.Equal(t, []string{"a"}, second.keys())
}

func TestStats(t *testing.T) {
	c := New[string, int](50)
	require.True(t, c.Add("a", 1, 30))
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	require.True(t, c.Add("b", 2, 30))

	s := c.Stats()
	require.Equal(t, int64(2), s.Hits)
	require.Equal(t, int64(1), s.Misses)
	require.Equal(t, int64(1), s.Evictions)
	require.Equal(t, int64(30), s.UsedCapacity)
	require.Equal(t, int64(50), s.Capacity)
	require.Equal(t, 1, s.Entries)
}

func TestConcurrentAddGet(t *testing.T) {
	c := New[string, int](1000)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("%d-%d", worker, i%50)
				c.Add(key, i, 10)
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, c.UsedCapacity(), c.Capacity())
	require.Equal(t, int64(10)*int64(c.Len()), c.UsedCapacity())
}
