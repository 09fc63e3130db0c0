package cache

import (
	"math"
	"sync"

	"github.com/joshuapare/cachekit/cache/critnib"
)

// Index serializes access to a critnib tree keyed on length-prefixed key
// blobs and manages entry references. It provides the single-writer,
// single-reader discipline the tree itself demands.
type Index struct {
	mu   sync.Mutex
	tree *critnib.Tree[*Entry]
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{tree: critnib.New[*Entry]()}
}

// Insert publishes the entry. On success the index holds the entry's first
// and only reference.
func (ix *Index) Insert(e *Entry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.tree.Set(e.keyBlob(), e); err != nil {
		return err
	}
	e.refs.Store(1)
	return nil
}

// Get looks up key and returns the entry with one reference acquired on
// the caller's behalf. The caller must release it when done reading.
func (ix *Index) Get(key []byte) (*Entry, bool) {
	if uint64(len(key)) > math.MaxUint32 {
		return nil, false
	}
	blob := appendKeyBlob(make([]byte, 0, keyPrefixSize+len(key)), key)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	e, ok := ix.tree.Get(blob)
	if !ok {
		return nil, false
	}
	e.acquire()
	return e, true
}

// Remove unpublishes key. The returned entry still carries the reference
// the index held; the caller releases it to trigger reclamation once any
// in-flight readers drain.
func (ix *Index) Remove(key []byte) (*Entry, bool) {
	if uint64(len(key)) > math.MaxUint32 {
		return nil, false
	}
	blob := appendKeyBlob(make([]byte, 0, keyPrefixSize+len(key)), key)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.tree.Remove(blob)
}

// Len returns the number of published entries.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.tree.Len()
}

// Close drops every published entry without releasing references; it is
// meant for teardown after the caller has reclaimed storage wholesale.
func (ix *Index) Close() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.tree.Clear()
}
