package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	util "github.com/bietkhonhungvandi212/poolkit/internal/utils"
)

func TestNewLRUKReplacer(t *testing.T) {
	t.Run("ValidArgs", func(t *testing.T) {
		lr := NewLRUKReplacer(5, 2)

		assert.Equal(t, 5, lr.poolSize, "pool size")
		assert.Equal(t, int32(2), lr.k, "history depth")
		assert.Equal(t, -1, lr.histHead, "histHead should be -1")
		assert.Equal(t, -1, lr.histTail, "histTail should be -1")
		assert.Equal(t, 0, lr.Size(), "no frame is evictable yet")
		assert.Empty(t, lr.evictable, "no frame is tracked yet")
		for i := 0; i < 5; i++ {
			assert.Equal(t, -1, lr.nextHist[i], "nextHist[%d]", i)
			assert.Equal(t, -1, lr.prevHist[i], "prevHist[%d]", i)
		}
	})

	t.Run("ZeroSize", func(t *testing.T) {
		assert.PanicsWithValue(t, util.ErrInvalidPoolSize, func() {
			NewLRUKReplacer(0, 2)
		})
	})

	t.Run("ZeroK", func(t *testing.T) {
		assert.PanicsWithValue(t, util.ErrInvalidHistoryDepth, func() {
			NewLRUKReplacer(5, 0)
		})
	})
}

func TestRecordAccessOutOfRange(t *testing.T) {
	lr := NewLRUKReplacer(3, 2)

	assert.PanicsWithValue(t, util.ErrFrameOutOfRange, func() {
		lr.RecordAccess(-1)
	})
	assert.PanicsWithValue(t, util.ErrFrameOutOfRange, func() {
		lr.RecordAccess(3)
	})
}

// Frames with fewer than k accesses have infinite backward K-distance and
// must be evicted before any frame with k accesses, oldest first.
func TestEvictPrefersInfiniteDistance(t *testing.T) {
	lr := NewLRUKReplacer(4, 2)

	for _, f := range []util.FrameID{1, 2, 3, 1} {
		lr.RecordAccess(f)
	}
	assert.Equal(t, 3, lr.Size(), "all three frames evictable")

	victim, ok := lr.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(2), victim, "frame 2 is the oldest below k")

	victim, ok = lr.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(3), victim, "frame 3 is the last below k")

	victim, ok = lr.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(1), victim, "frame 1 has k accesses, goes last")

	_, ok = lr.Evict()
	assert.False(t, ok, "nothing left to evict")
	assert.Equal(t, 0, lr.Size())
}

// Among frames that all reached k accesses, the one whose k-th most recent
// access is oldest goes first.
func TestEvictLRUAmongSaturated(t *testing.T) {
	lr := NewLRUKReplacer(4, 2)

	for _, f := range []util.FrameID{1, 1, 2, 2, 3, 3} {
		lr.RecordAccess(f)
	}

	for _, want := range []util.FrameID{1, 2, 3} {
		victim, ok := lr.Evict()
		assert.True(t, ok)
		assert.Equal(t, want, victim)
	}
}

// With k=1 the policy degenerates to plain LRU: the first access is already
// the k-th, so a fresh frame is the most recent, not the first victim.
func TestLRUKReplacer_KEqualsOne(t *testing.T) {
	lr := NewLRUKReplacer(4, 1)

	lr.RecordAccess(1)
	lr.RecordAccess(2)
	lr.RecordAccess(3)
	lr.RecordAccess(1) // refresh 1, order is now 2, 3, 1

	for _, want := range []util.FrameID{2, 3, 1} {
		victim, ok := lr.Evict()
		assert.True(t, ok)
		assert.Equal(t, want, victim)
	}
}

func TestSetEvictable(t *testing.T) {
	lr := NewLRUKReplacer(4, 2)

	lr.RecordAccess(0)
	lr.RecordAccess(1)
	lr.RecordAccess(2)
	assert.Equal(t, 3, lr.Size())

	lr.SetEvictable(0, false)
	assert.Equal(t, 2, lr.Size(), "pinning frame 0 shrinks the size")
	lr.SetEvictable(0, false)
	assert.Equal(t, 2, lr.Size(), "no change without a state transition")

	victim, ok := lr.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(1), victim, "frame 0 is skipped while pinned")

	lr.SetEvictable(0, true)
	assert.Equal(t, 2, lr.Size())
	victim, ok = lr.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(0), victim)

	lr.SetEvictable(3, true)
	assert.Equal(t, 1, lr.Size(), "untracked frame is a no-op")

	assert.PanicsWithValue(t, util.ErrFrameOutOfRange, func() {
		lr.SetEvictable(4, true)
	})
}

func TestEvictAllPinned(t *testing.T) {
	lr := NewLRUKReplacer(3, 2)

	lr.RecordAccess(0)
	lr.RecordAccess(1)
	lr.SetEvictable(0, false)
	lr.SetEvictable(1, false)

	_, ok := lr.Evict()
	assert.False(t, ok, "no evictable frame")
	assert.Equal(t, 0, lr.Size())
}

func TestRemove(t *testing.T) {
	t.Run("EvictableFrame", func(t *testing.T) {
		lr := NewLRUKReplacer(3, 2)
		lr.RecordAccess(0)
		lr.RecordAccess(1)

		lr.Remove(0)
		assert.Equal(t, 1, lr.Size())
		_, tracked := lr.evictable[0]
		assert.False(t, tracked, "frame 0 is untracked after Remove")

		victim, ok := lr.Evict()
		assert.True(t, ok)
		assert.Equal(t, util.FrameID(1), victim, "removed frame never becomes a victim")
	})

	t.Run("UntrackedFrameIsNoOp", func(t *testing.T) {
		lr := NewLRUKReplacer(3, 2)
		lr.Remove(0)
		assert.Equal(t, 0, lr.Size())
	})

	t.Run("PinnedFramePanics", func(t *testing.T) {
		lr := NewLRUKReplacer(3, 2)
		lr.RecordAccess(0)
		lr.SetEvictable(0, false)

		assert.PanicsWithValue(t, util.ErrRemoveNotEvictable, func() {
			lr.Remove(0)
		})
	})

	t.Run("OutOfRangePanics", func(t *testing.T) {
		lr := NewLRUKReplacer(3, 2)
		assert.PanicsWithValue(t, util.ErrFrameOutOfRange, func() {
			lr.Remove(3)
		})
	})
}

// Re-accessing a frame below k must not reorder it behind frames that already
// reached k, and reaching k must move it into the saturated block.
func TestRecordAccessReordering(t *testing.T) {
	lr := NewLRUKReplacer(5, 3)

	lr.RecordAccess(1)
	lr.RecordAccess(1)
	lr.RecordAccess(1) // frame 1 saturated at k=3
	lr.RecordAccess(2)
	lr.RecordAccess(3)
	lr.RecordAccess(2) // frame 2 at 2 accesses, refreshed after 3

	// Below-k frames go first in LRU order, then the saturated frame.
	for _, want := range []util.FrameID{3, 2, 1} {
		victim, ok := lr.Evict()
		assert.True(t, ok)
		assert.Equal(t, want, victim)
	}
}

// Size must always equal the number of tracked frames with evictable=true.
func TestSizeMatchesEvictableCount(t *testing.T) {
	lr := NewLRUKReplacer(8, 2)

	for f := util.FrameID(0); f < 8; f++ {
		lr.RecordAccess(f)
	}
	lr.SetEvictable(1, false)
	lr.SetEvictable(4, false)
	lr.Remove(6)
	lr.RecordAccess(3)
	lr.RecordAccess(3)

	count := 0
	for _, ok := range lr.evictable {
		if ok {
			count++
		}
	}
	assert.Equal(t, count, lr.Size())
	assert.Equal(t, 5, lr.Size())
}

func TestConcurrentRecordAccess(t *testing.T) {
	const poolSize = 64
	lr := NewLRUKReplacer(poolSize, 2)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for f := w * 8; f < (w+1)*8; f++ {
				lr.RecordAccess(util.FrameID(f))
				lr.RecordAccess(util.FrameID(f))
				_ = lr.Size()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, poolSize, lr.Size(), "every frame tracked and evictable")
	evicted := 0
	for {
		if _, ok := lr.Evict(); !ok {
			break
		}
		evicted++
	}
	assert.Equal(t, poolSize, evicted)
}
