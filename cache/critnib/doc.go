// Package critnib implements a crit-bit-style radix tree over opaque byte
// strings with a 4-bit stride.
//
// # Overview
//
// Internal nodes discriminate on one nibble of the key (16-way fan-out) and
// record the byte offset and bit shift of that nibble. Paths compress: a
// node exists only where stored keys actually diverge, so every internal
// node has at least two children and lookups touch at most
// len(key)*8/4 nodes.
//
// Inserts descend the tree twice. The first descent finds a witness leaf
// whose key shares with the new key every bit up to the divergence point;
// the second walks to the edge where a new node (or the bare leaf) must be
// spliced in. Lookups end with a full key comparison, since the descent
// inspects only the nibbles at divergence points.
//
// # Key ownership
//
// Key slices are borrowed, never copied: the caller must keep a key's
// backing array alive and unmodified while it is in the tree. Values are
// opaque to the tree.
//
// # Prefix keys
//
// The tree cannot hold a key and a strict prefix of that key at the same
// time; Set reports ErrKeyExists for the second of the pair. Callers that
// need such key sets should length-prefix their keys, which is what the
// cache layer in package cache does.
//
// # Concurrency
//
// A Tree is not safe for concurrent use. The surrounding cache serializes
// access; see cache.Index.
package critnib
