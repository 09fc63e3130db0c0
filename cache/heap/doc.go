// Package heap implements the fragment heap backing the cache's value
// storage: a lock-protected LIFO free list over one pre-mapped byte region.
//
// # Overview
//
// Every allocation is a multiple of the fragment size chosen at creation.
// Alloc pops the top free extent, splits off the unused tail, and pushes
// the tail back; Free pushes the extent. There is no coalescing and no
// best-fit search, which keeps the critical section to a single pop and at
// most one push.
//
// # Accounting
//
// Used is maintained with an atomic counter so the surrounding cache can
// poll occupancy without contending on the allocation lock. The invariant
// at quiescence is
//
//	Used() + Stats().FreeBytes == Size()
//
// # Thread safety
//
// Alloc and Free may be called from any number of goroutines; operations
// linearize at lock release. Bytes, Size, and FragmentSize are read-only
// and always safe. Extents are owned by the caller between Alloc and Free;
// double frees and foreign extents are caller bugs the heap does not
// detect.
package heap
