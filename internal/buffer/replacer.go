// Package buffer implements the buffer pool manager: a bounded frame cache
// with pin-counting, write-back, and a pluggable victim policy.
package buffer

import "github.com/tuannm99/pagedb/internal/storage"

// Replacer tracks which frames are candidates for eviction. A frame is
// pinned (non-candidate) or unpinned (candidate); victim selection removes
// the chosen candidate from the replacer.
type Replacer interface {
	// Pin marks frameID pinned, removing it from victim candidacy.
	// Idempotent.
	Pin(frameID int)

	// Unpin marks frameID unpinned, making it a victim candidate.
	// Idempotent.
	Unpin(frameID int)

	// Victim returns one candidate frame id and removes it, or ok=false if
	// no candidate exists.
	Victim() (frameID int, ok bool)

	// Size returns the number of current candidates.
	Size() int
}

// NewReplacer selects a Replacer implementation by the REPLACER
// configuration string, raising ErrUnknownReplacer for anything else.
func NewReplacer(kind string, k int) (Replacer, error) {
	switch kind {
	case "", "LRUReplacer":
		return NewLRUReplacer(), nil
	case "LRUKReplacer":
		return NewLRUKReplacer(k), nil
	default:
		return nil, storage.ErrUnknownReplacer
	}
}
