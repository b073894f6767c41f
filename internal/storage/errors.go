package storage

import "errors"

// Sentinel error kinds shared across the buffer pool, table handle and
// executor packages. Callers distinguish kinds with errors.Is, never by
// type-switching on concrete structs.
var (
	// ErrRecordMiss is raised when a slot's occupancy bit is 0.
	ErrRecordMiss = errors.New("storage: record miss")

	// ErrRecordExists is raised by a targeted insert into an occupied slot.
	ErrRecordExists = errors.New("storage: record already exists")

	// ErrPageMiss is raised when an operation references InvalidPageID.
	ErrPageMiss = errors.New("storage: page miss")

	// ErrNoFreeFrame is raised when the buffer pool cannot find a victim.
	ErrNoFreeFrame = errors.New("storage: no free frame available")

	// ErrUnknownReplacer is raised when configuration names an unrecognized
	// replacement policy.
	ErrUnknownReplacer = errors.New("storage: unknown replacer policy")

	// ErrStorageIO wraps any error propagated from the disk manager.
	ErrStorageIO = errors.New("storage: io error")

	// ErrPagePinned names the pinned-frame condition. No function in this
	// module returns it: Pool.DeletePage reports a pinned page by returning
	// false, and eviction never selects a pinned frame.
	ErrPagePinned = errors.New("storage: page is pinned")
)
