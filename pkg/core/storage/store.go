package storage

import (
	"errors"
)

// KeyPrefix is a prefix byte of storage keys.
type KeyPrefix uint8

// KeyPrefix constants.
const (
	// SYSWatermark is used for the last fully processed block height of a
	// block watcher.
	SYSWatermark KeyPrefix = 0xc0
	// SYSVersion is used for the storage schema version.
	SYSVersion KeyPrefix = 0xf0
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

// Store is the underlying KV backend for persisted client state.
type Store interface {
	Get([]byte) ([]byte, error)
	Put(k, v []byte) error
	Delete(k []byte) error
	Close() error
}

// Bytes returns the byte representation of KeyPrefix.
func (k KeyPrefix) Bytes() []byte {
	return []byte{byte(k)}
}

// AppendPrefix appends the given byte slice to the KeyPrefix.
func AppendPrefix(k KeyPrefix, b []byte) []byte {
	dest := make([]byte, len(b)+1)
	dest[0] = byte(k)
	copy(dest[1:], b)
	return dest
}

// NewStore creates a BoltDBStore at path or a MemoryStore if path is empty.
func NewStore(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewBoltDBStore(BoltDBOptions{FilePath: path})
}
