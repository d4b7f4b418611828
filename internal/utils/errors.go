package util

import "errors"

var (
	ErrInvalidPoolSize     = errors.New("invalid pool size")
	ErrInvalidHistoryDepth = errors.New("invalid history depth")
	ErrFrameOutOfRange     = errors.New("frame id out of range")
	ErrRemoveNotEvictable  = errors.New("remove on a non-evictable frame")
	ErrInvalidBucketSize   = errors.New("invalid bucket size")
	ErrNilHashFunc         = errors.New("hash function is nil")
)
