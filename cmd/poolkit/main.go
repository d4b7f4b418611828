package main

import (
	"go.uber.org/zap"

	"github.com/bietkhonhungvandi212/poolkit/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/poolkit/internal/storage/index"
	util "github.com/bietkhonhungvandi212/poolkit/internal/utils"
)

// Simulates the call pattern of a buffer pool manager: a page table mapping
// page ids to frames, a reverse table for victim lookups, and an LRU-K
// replacer deciding which frame to reclaim when the pool is full.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	const poolSize = 4

	pageTable := index.NewExtendibleHashTable[util.PageID, util.FrameID](2, func(id util.PageID) uint64 {
		return index.Uint64Hash(uint64(id))
	})
	frameTable := index.NewExtendibleHashTable[util.FrameID, util.PageID](2, func(id util.FrameID) uint64 {
		return index.Uint64Hash(uint64(id))
	})
	replacer := buffer.NewLRUKReplacer(poolSize, 2)

	nextFree := 0
	for _, pageID := range []util.PageID{1, 2, 3, 4, 1, 2, 5, 6, 1} {
		frameIdx, cached := pageTable.Find(pageID)
		if !cached {
			if nextFree < poolSize {
				frameIdx = util.FrameID(nextFree)
				nextFree++
			} else {
				victim, ok := replacer.Evict()
				if !ok {
					logger.Fatal("no evictable frame in the pool")
				}
				if old, found := frameTable.Find(victim); found {
					pageTable.Remove(old)
					logger.Info("evicted page",
						zap.Uint64("page_id", uint64(old)),
						zap.Int("frame_idx", int(victim)))
				}
				frameIdx = victim
			}
			pageTable.Insert(pageID, frameIdx)
			frameTable.Insert(frameIdx, pageID)
		}

		replacer.RecordAccess(frameIdx)
		replacer.SetEvictable(frameIdx, true)
		logger.Info("page touched",
			zap.Uint64("page_id", uint64(pageID)),
			zap.Int("frame_idx", int(frameIdx)),
			zap.Bool("cache_hit", cached))
	}

	logger.Info("final state",
		zap.Int("evictable_frames", replacer.Size()),
		zap.Int("page_table_global_depth", pageTable.GlobalDepth()),
		zap.Int("page_table_buckets", pageTable.NumBuckets()))
}
