package cache

import (
	"errors"

	"github.com/joshuapare/cachekit/cache/critnib"
)

var (
	// ErrNoSpace indicates the heap could not hold the value. The caller
	// decides which entries to Delete to make room.
	ErrNoSpace = errors.New("cache: no space left for value")

	// ErrBadSize indicates an unusable cache capacity.
	ErrBadSize = errors.New("cache: capacity must be positive")

	// ErrKeyExists is returned by Put for a key that is already stored.
	ErrKeyExists = critnib.ErrKeyExists

	// ErrKeyTooLong is returned for keys above the 4 GiB length limit.
	ErrKeyTooLong = critnib.ErrKeyTooLong
)
