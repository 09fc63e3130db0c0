package cache

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/joshuapare/cachekit/cache/heap"
)

// keyPrefixSize is the width of the little-endian key-length field that
// prefixes every indexed key. The prefix guarantees that no indexed byte
// string is a prefix of another, which the critnib requires.
const keyPrefixSize = 4

// appendKeyBlob appends the indexed form of key to dst: a 4-byte
// little-endian length followed by the key bytes.
func appendKeyBlob(dst, key []byte) []byte {
	var pfx [keyPrefixSize]byte
	binary.LittleEndian.PutUint32(pfx[:], uint32(len(key)))
	dst = append(dst, pfx[:]...)
	return append(dst, key...)
}

// Entry is one cached value: the indexed key blob, the heap extents that
// hold the value bytes, and a reference count. The index holds one
// reference for as long as the entry is published; every Get takes another
// for the duration of the read. Storage is reclaimed when the last
// reference drops.
type Entry struct {
	blob    []byte
	extents []heap.Extent
	vsize   int64
	refs    atomic.Int32
}

func newEntry(key []byte) *Entry {
	blob := make([]byte, 0, keyPrefixSize+len(key))
	return &Entry{blob: appendKeyBlob(blob, key)}
}

// Key returns the entry's key without the length prefix. The slice aliases
// the entry's storage and must not be modified.
func (e *Entry) Key() []byte { return e.blob[keyPrefixSize:] }

// Size returns the stored value's length in bytes.
func (e *Entry) Size() int64 { return e.vsize }

func (e *Entry) keyBlob() []byte { return e.blob }

func (e *Entry) acquire() { e.refs.Add(1) }

// release drops one reference and calls onZero when the last one is gone.
// Exactly one caller observes the drop to zero.
func (e *Entry) release(onZero func(*Entry)) {
	if e.refs.Add(-1) == 0 && onZero != nil {
		onZero(e)
	}
}
