package index

// entry is one key/value pair owned by a bucket.
type entry[K comparable, V any] struct {
	key K
	val V
}

// bucket owns the entries whose hashes agree on its depth low-order bits.
// Multiple directory slots share one bucket while depth < globalDepth.
type bucket[K comparable, V any] struct {
	entries  []entry[K, V]
	capacity int
	depth    int
}

func newBucket[K comparable, V any](capacity, depth int) *bucket[K, V] {
	return &bucket[K, V]{
		entries:  make([]entry[K, V], 0, capacity),
		capacity: capacity,
		depth:    depth,
	}
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	for i := range b.entries {
		if b.entries[i].key == key {
			return b.entries[i].val, true
		}
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) remove(key K) bool {
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// insert overwrites an existing key, or appends when there is room.
// Returns false when the bucket is full and the key is absent.
func (b *bucket[K, V]) insert(key K, val V) bool {
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries[i].val = val
			return true
		}
	}
	if len(b.entries) >= b.capacity {
		return false
	}
	b.entries = append(b.entries, entry[K, V]{key: key, val: val})
	return true
}
