package index

import (
	"sync"

	"go.uber.org/zap"

	util "github.com/bietkhonhungvandi212/poolkit/internal/utils"
)

// ExtendibleHashTable maps keys to values through a directory of
// 2^globalDepth slots aliasing shared buckets. A full bucket splits locally
// on one extra hash bit; the directory doubles only when the splitting bucket
// already uses every directory bit. Low-order-bit addressing makes doubling a
// plain append of aliases: growth itself never rehashes an entry.
//
// The table is growth-only: removals never merge buckets or shrink the
// directory. All operations are safe for concurrent use behind one mutex per
// table instance; callers must not assume atomicity across calls.
type ExtendibleHashTable[K comparable, V any] struct {
	mu sync.Mutex

	dir         []*bucket[K, V]
	globalDepth int
	numBuckets  int // distinct buckets referenced by the directory
	bucketSize  int
	hash        HashFunc[K]
}

// NewExtendibleHashTable creates a table with a single empty bucket at depth
// 0. bucketSize bounds the entries per bucket; hash supplies the key hashing
// scheme (see Uint64Hash, StringHash).
func NewExtendibleHashTable[K comparable, V any](bucketSize int, hash HashFunc[K]) *ExtendibleHashTable[K, V] {
	if bucketSize <= 0 {
		panic(util.ErrInvalidBucketSize)
	}
	if hash == nil {
		zap.L().Error("extendible hash table requires a hash function")
		panic(util.ErrNilHashFunc)
	}

	return &ExtendibleHashTable[K, V]{
		dir:        []*bucket[K, V]{newBucket[K, V](bucketSize, 0)},
		numBuckets: 1,
		bucketSize: bucketSize,
		hash:       hash,
	}
}

// Find returns the value stored under key, or false if the key is absent.
func (t *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].find(key)
}

// Remove deletes the entry under key, reporting whether it was present.
func (t *ExtendibleHashTable[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].remove(key)
}

// Insert stores value under key, overwriting any previous value. A full
// target bucket is split, doubling the directory first when the bucket's
// local depth has reached the global depth, until the key fits. Keys are
// never dropped; a pathological hash distribution grows the directory
// without bound.
func (t *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		target := t.dir[t.indexOf(key)]
		if target.insert(key, value) {
			return
		}
		if target.depth == t.globalDepth {
			t.growDirectory()
		}
		t.split(target)
	}
}

// GlobalDepth returns the number of low-order hash bits addressing the directory.
func (t *ExtendibleHashTable[K, V]) GlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

// LocalDepth returns the depth of the bucket referenced by directory slot.
func (t *ExtendibleHashTable[K, V]) LocalDepth(slot int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[slot].depth
}

// NumBuckets returns the number of distinct buckets in the directory.
func (t *ExtendibleHashTable[K, V]) NumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numBuckets
}

func (t *ExtendibleHashTable[K, V]) indexOf(key K) int {
	return int(t.hash(key) & (uint64(1)<<t.globalDepth - 1))
}

// growDirectory doubles the directory in place. Every new slot aliases the
// bucket of its low-bits twin, so existing slot contents are preserved.
// Caller must hold t.mu.
func (t *ExtendibleHashTable[K, V]) growDirectory() {
	t.dir = append(t.dir, t.dir...)
	t.globalDepth++
}

// split divides an overflowing bucket on one extra hash bit. The bucket's
// first entry samples which half of the key space keeps the old bucket;
// entries and directory slots whose new bit disagrees with the sample move
// to a fresh sibling. The sample is recomputed from current contents, so the
// partition does not depend on insertion order. Caller must hold t.mu.
func (t *ExtendibleHashTable[K, V]) split(old *bucket[K, V]) {
	old.depth++
	sibling := newBucket[K, V](t.bucketSize, old.depth)
	mask := uint64(1)<<old.depth - 1
	sample := t.hash(old.entries[0].key) & mask

	kept := old.entries[:0]
	for _, e := range old.entries {
		if t.hash(e.key)&mask == sample {
			kept = append(kept, e)
		} else {
			sibling.entries = append(sibling.entries, e)
		}
	}
	old.entries = kept

	for i := range t.dir {
		if t.dir[i] == old && uint64(i)&mask != sample {
			t.dir[i] = sibling
		}
	}
	t.numBuckets++
}
