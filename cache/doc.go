// Package cache ties the critnib index and the fragment heap together into
// a volatile byte-value cache.
//
// # Overview
//
// A Cache owns an anonymous memory-mapped region managed by a fragment
// heap (package heap) and an index mapping keys to entries (package
// critnib, wrapped by Index for locking). Put copies the value into heap
// extents and publishes an Entry; Get copies it back out; Delete
// unpublishes and, once in-flight readers drain, returns the extents to
// the heap.
//
// # Keys
//
// Indexed keys are length-prefixed byte strings: a 4-byte little-endian
// key length followed by the key bytes. The prefix makes it impossible for
// one indexed key to be a prefix of another, which the critnib cannot
// represent. Callers pass plain keys; the prefix is internal.
//
// # Space management
//
// There is no replacement policy: a Put that does not fit reports
// ErrNoSpace and the caller chooses victims to Delete. The heap never
// merges fragments, so victim choice is what keeps fragment sizes useful.
//
// # Concurrency
//
// Index mutations serialize on one mutex. Entry lifetimes are reference
// counted so a Delete cannot pull storage out from under a concurrent Get.
// Used reads an atomic counter and never blocks.
package cache
