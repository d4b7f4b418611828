package buffer

import util "github.com/bietkhonhungvandi212/poolkit/internal/utils"

// Replacer defines the contract for frame replacement policies.
type Replacer interface {
	// RecordAccess notes one access to a frame, tracking the frame if it is new.
	RecordAccess(frameIdx util.FrameID)
	// Evict removes and returns the victim frame, or false if no frame is evictable.
	Evict() (util.FrameID, bool)
	// SetEvictable toggles a tracked frame's eviction eligibility. No-op for untracked frames.
	SetEvictable(frameIdx util.FrameID, evictable bool)
	// Remove forcibly untracks an evictable frame. No-op for untracked frames.
	Remove(frameIdx util.FrameID)
	// Size returns the number of frames currently eligible for eviction.
	Size() int
}
