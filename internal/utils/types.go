package util

// PageID represents a unique page identifier
type PageID uint64

// FrameID represents a buffer frame index, always within [0, poolSize)
type FrameID int
