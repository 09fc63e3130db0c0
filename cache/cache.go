package cache

import (
	"fmt"
	"math"

	"github.com/joshuapare/cachekit/cache/heap"
	"github.com/joshuapare/cachekit/internal/mmap"
)

// DefaultFragmentSize is the allocation quantum used when Config leaves
// FragmentSize zero.
const DefaultFragmentSize = 256

// Config sizes a Cache. Size is required; everything else has a usable
// zero value.
type Config struct {
	// Size is the capacity of the value region in bytes.
	Size int64

	// FragmentSize is the heap's allocation quantum. Defaults to
	// DefaultFragmentSize.
	FragmentSize int64
}

// Cache is a volatile byte-value cache: an anonymous mapped region carved
// up by a fragment heap, indexed by a critnib under length-prefixed keys.
//
// The cache has no replacement policy. When Put cannot find space it
// reports ErrNoSpace and the caller picks victims to Delete.
type Cache struct {
	heap    *heap.Heap
	index   *Index
	release func() error
}

// New maps an anonymous region of config.Size bytes and builds an empty
// cache over it.
func New(config Config) (*Cache, error) {
	if config.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, config.Size)
	}
	if config.Size > math.MaxInt {
		return nil, fmt.Errorf("%w: %d does not fit the address space", ErrBadSize, config.Size)
	}
	fragment := config.FragmentSize
	if fragment == 0 {
		fragment = DefaultFragmentSize
	}

	region, release, err := mmap.Anon(int(config.Size))
	if err != nil {
		return nil, err
	}
	h, err := heap.New(region, fragment, nil)
	if err != nil {
		_ = release()
		return nil, err
	}
	return &Cache{
		heap:    h,
		index:   NewIndex(),
		release: release,
	}, nil
}

// Put stores value under key. The value bytes are copied into freshly
// allocated heap extents; when the remainder cannot be placed the partial
// allocation is unwound and ErrNoSpace returned. An already-present key is
// rejected with ErrKeyExists; Delete it first to replace.
func (c *Cache) Put(key, value []byte) error {
	if uint64(len(key)) > math.MaxUint32 {
		return ErrKeyTooLong
	}

	e := newEntry(key)
	remaining := value
	for len(remaining) > 0 {
		want := int64(len(remaining))
		ext, ok := c.heap.Alloc(want)
		if !ok && want > c.heap.FragmentSize() {
			// No extent covers the remainder in one piece; take it
			// fragment by fragment from whatever tops the stack.
			ext, ok = c.heap.Alloc(c.heap.FragmentSize())
		}
		if !ok {
			c.reclaim(e)
			return ErrNoSpace
		}
		n := copy(c.heap.Bytes(ext), remaining)
		remaining = remaining[n:]
		e.extents = append(e.extents, ext)
	}
	e.vsize = int64(len(value))

	if err := c.index.Insert(e); err != nil {
		c.reclaim(e)
		return err
	}
	return nil
}

// Get returns a copy of the value stored under key, or false on a miss.
func (c *Cache) Get(key []byte) ([]byte, bool) {
	e, ok := c.index.Get(key)
	if !ok {
		return nil, false
	}

	out := make([]byte, 0, e.Size())
	remaining := e.Size()
	for _, ext := range e.extents {
		n := min(remaining, ext.Size)
		out = append(out, c.heap.Bytes(ext)[:n]...)
		remaining -= n
	}
	e.release(c.reclaim)
	return out, true
}

// Delete unpublishes key and returns whether it was present. The value's
// extents go back to the heap once the last in-flight reader is done.
func (c *Cache) Delete(key []byte) bool {
	e, ok := c.index.Remove(key)
	if !ok {
		return false
	}
	e.release(c.reclaim)
	return true
}

// Used returns the bytes of value storage currently allocated.
func (c *Cache) Used() int64 { return c.heap.Used() }

// Capacity returns the size of the value region.
func (c *Cache) Capacity() int64 { return c.heap.Size() }

// Len returns the number of stored keys.
func (c *Cache) Len() int { return c.index.Len() }

// HeapStats returns the backing heap's counters.
func (c *Cache) HeapStats() heap.Stats { return c.heap.Stats() }

// Close tears the cache down and unmaps the value region. Entries still
// referenced by concurrent readers become invalid; Close is not safe to
// run concurrently with other operations.
func (c *Cache) Close() error {
	c.index.Close()
	return c.release()
}

// reclaim hands an entry's extents back to the heap. Runs when the last
// reference to the entry drops, or when a partially built entry is
// unwound.
func (c *Cache) reclaim(e *Entry) {
	for _, ext := range e.extents {
		c.heap.Free(ext)
	}
	e.extents = nil
}
