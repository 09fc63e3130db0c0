package critnib

import "errors"

var (
	// ErrKeyExists indicates the key is already stored, or is a prefix or
	// extension of a stored key.
	ErrKeyExists = errors.New("critnib: key already present")

	// ErrKeyTooLong indicates the key exceeds the 2^32-1 byte limit of the
	// internal length type.
	ErrKeyTooLong = errors.New("critnib: key longer than 4 GiB")
)
