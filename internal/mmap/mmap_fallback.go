//go:build !unix

package mmap

import "fmt"

// Anon returns a heap-allocated zeroed region on platforms without an
// anonymous-mmap path. The release func is a no-op.
func Anon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid mapping size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
