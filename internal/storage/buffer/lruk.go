package buffer

import (
	"sync"

	"go.uber.org/zap"

	util "github.com/bietkhonhungvandi212/poolkit/internal/utils"
)

// LRUKReplacer evicts the frame with the largest backward K-distance, the
// time since its K-th most recent access. A frame with fewer than K recorded
// accesses has infinite distance and is always preferred as a victim; such
// frames are ordered among themselves by plain LRU. Requiring K references
// before a frame counts as hot keeps one-off scans from displacing frames
// with proven reuse.
type LRUKReplacer struct {
	mu sync.Mutex

	counts   []int32 // accesses recorded per frame, saturating at k
	nextHist []int   // forward links of the history chain, -1 terminated
	prevHist []int   // backward links of the history chain, -1 terminated
	histHead int     // evict-first end (largest backward K-distance)
	histTail int     // most recently refreshed end

	evictable map[util.FrameID]bool // tracked frames and their eviction eligibility
	currSize  int                   // tracked frames with evictable=true
	poolSize  int
	k         int32
}

// NewLRUKReplacer creates a replacer for frame ids in [0, size) with history
// depth k.
func NewLRUKReplacer(size, k int) *LRUKReplacer {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if k <= 0 {
		panic(util.ErrInvalidHistoryDepth)
	}

	lr := &LRUKReplacer{
		counts:    make([]int32, size),
		nextHist:  make([]int, size),
		prevHist:  make([]int, size),
		histHead:  -1,
		histTail:  -1,
		evictable: make(map[util.FrameID]bool, size),
		poolSize:  size,
		k:         int32(k),
	}
	for i := 0; i < size; i++ {
		lr.nextHist[i] = -1
		lr.prevHist[i] = -1
	}
	return lr
}

// RecordAccess records one access to frameIdx. A tracked frame has its count
// bumped and its history position refreshed; a new frame is tracked as
// evictable with count 1, evicting a victim first if the replacer is full.
// Panics if frameIdx is outside [0, poolSize).
func (lr *LRUKReplacer) RecordAccess(frameIdx util.FrameID) {
	lr.checkFrame(frameIdx)
	lr.mu.Lock()
	defer lr.mu.Unlock()

	idx := int(frameIdx)
	if _, tracked := lr.evictable[frameIdx]; tracked {
		lr.unlink(idx)
		if lr.counts[idx] < lr.k {
			lr.counts[idx]++
		}
		lr.place(idx)
		return
	}

	if lr.currSize == lr.poolSize {
		lr.evictVictim()
	}
	lr.evictable[frameIdx] = true
	lr.currSize++
	lr.counts[idx] = 1
	lr.place(idx)
}

// Evict scans from the largest-distance end of the history and removes the
// first evictable frame. Returns false if no frame is evictable.
func (lr *LRUKReplacer) Evict() (util.FrameID, bool) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.evictVictim()
}

// SetEvictable toggles eviction eligibility of a tracked frame, adjusting the
// size only on an actual state change. Panics if frameIdx is out of range.
func (lr *LRUKReplacer) SetEvictable(frameIdx util.FrameID, evictable bool) {
	lr.checkFrame(frameIdx)
	lr.mu.Lock()
	defer lr.mu.Unlock()

	current, tracked := lr.evictable[frameIdx]
	if !tracked {
		return
	}
	if evictable && !current {
		lr.evictable[frameIdx] = true
		lr.currSize++
	} else if !evictable && current {
		lr.evictable[frameIdx] = false
		lr.currSize--
	}
}

// Remove forcibly untracks a frame. Untracking a pinned (non-evictable)
// frame is a caller bug and panics; untracked frames are a no-op.
func (lr *LRUKReplacer) Remove(frameIdx util.FrameID) {
	lr.checkFrame(frameIdx)
	lr.mu.Lock()
	defer lr.mu.Unlock()

	current, tracked := lr.evictable[frameIdx]
	if !tracked {
		return
	}
	if !current {
		zap.L().Error("remove on a non-evictable frame",
			zap.Int("frame_idx", int(frameIdx)))
		panic(util.ErrRemoveNotEvictable)
	}

	lr.unlink(int(frameIdx))
	delete(lr.evictable, frameIdx)
	lr.currSize--
}

// Size returns the number of evictable frames.
func (lr *LRUKReplacer) Size() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.currSize
}

func (lr *LRUKReplacer) checkFrame(frameIdx util.FrameID) {
	if frameIdx < 0 || int(frameIdx) >= lr.poolSize {
		zap.L().Error("frame id out of range",
			zap.Int("frame_idx", int(frameIdx)),
			zap.Int("pool_size", lr.poolSize))
		panic(util.ErrFrameOutOfRange)
	}
}

// evictVictim scans the history chain from the head. Caller must hold lr.mu.
func (lr *LRUKReplacer) evictVictim() (util.FrameID, bool) {
	for idx := lr.histHead; idx != -1; idx = lr.nextHist[idx] {
		if lr.evictable[util.FrameID(idx)] {
			lr.unlink(idx)
			delete(lr.evictable, util.FrameID(idx))
			lr.currSize--
			return util.FrameID(idx), true
		}
	}
	return -1, false
}

// place links an unlinked frame into the history chain. Frames below k stay
// ordered by recency ahead of the saturated block at the tail; a frame at k
// joins the tail, its K-th access being the most recent of all saturated
// frames. Caller must hold lr.mu.
func (lr *LRUKReplacer) place(idx int) {
	if lr.counts[idx] == lr.k {
		lr.pushBack(idx)
		return
	}

	pos := lr.histTail
	for pos != -1 && lr.counts[pos] == lr.k {
		pos = lr.prevHist[pos]
	}
	if pos == -1 {
		lr.pushFront(idx)
		return
	}
	lr.insertAfter(pos, idx)
}

func (lr *LRUKReplacer) pushBack(idx int) {
	lr.prevHist[idx] = lr.histTail
	lr.nextHist[idx] = -1
	if lr.histTail != -1 {
		lr.nextHist[lr.histTail] = idx
	}
	lr.histTail = idx
	if lr.histHead == -1 {
		lr.histHead = idx
	}
}

func (lr *LRUKReplacer) pushFront(idx int) {
	lr.nextHist[idx] = lr.histHead
	lr.prevHist[idx] = -1
	if lr.histHead != -1 {
		lr.prevHist[lr.histHead] = idx
	}
	lr.histHead = idx
	if lr.histTail == -1 {
		lr.histTail = idx
	}
}

func (lr *LRUKReplacer) insertAfter(pos, idx int) {
	next := lr.nextHist[pos]
	lr.nextHist[pos] = idx
	lr.prevHist[idx] = pos
	lr.nextHist[idx] = next
	if next != -1 {
		lr.prevHist[next] = idx
	} else {
		lr.histTail = idx
	}
}

// unlink detaches a frame from the history chain. Caller must hold lr.mu.
func (lr *LRUKReplacer) unlink(idx int) {
	prev := lr.prevHist[idx]
	next := lr.nextHist[idx]
	isHead := prev == -1
	isTail := next == -1

	switch {
	case isHead && isTail:
		lr.histHead = -1
		lr.histTail = -1
	case isHead:
		lr.histHead = next
		lr.prevHist[next] = -1
	case isTail:
		lr.histTail = prev
		lr.nextHist[prev] = -1
	default:
		lr.nextHist[prev] = next
		lr.prevHist[next] = prev
	}

	lr.nextHist[idx] = -1
	lr.prevHist[idx] = -1
}

var _ Replacer = (*LRUKReplacer)(nil)
