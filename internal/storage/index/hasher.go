package index

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// HashFunc maps a key to the hash whose low-order bits address the directory.
// The same key must always hash to the same value for the lifetime of a table.
type HashFunc[K comparable] func(K) uint64

// Uint64Hash hashes a 64-bit word with murmur3 over its little-endian encoding.
func Uint64Hash(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return murmur3.Sum64(buf[:])
}

// StringHash hashes a string key with xxhash.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHash hashes an encoded key with xxhash. Useful for building a HashFunc
// over composite keys that serialize to bytes.
func BytesHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}
