package buffer

import "sync"

// AccessRecorder is implemented by replacers (LRUKReplacer) that need to
// observe every frame access, not just pin/unpin transitions. The buffer
// pool calls RecordAccess on both a fetch hit and a fetch miss that lands
// on a frame.
type AccessRecorder interface {
	RecordAccess(frameID int)
}

type lrukEntry struct {
	// history holds up to k most recent access timestamps, oldest first.
	history   []int64
	evictable bool
}

// LRUKReplacer evicts the candidate with the largest backward k-distance.
// A frame with fewer than k recorded accesses has infinite backward
// distance and is evicted first; ties among such frames go to whichever
// has the oldest earliest recorded access. Ties elsewhere go to the
// smallest frame id. Access order is a monotonic counter scoped to this
// replacer rather than wall-clock time, so behavior is deterministic under
// test.
type LRUKReplacer struct {
	mu      sync.Mutex
	k       int
	clock   int64
	entries map[int]*lrukEntry
}

func NewLRUKReplacer(k int) *LRUKReplacer {
	if k <= 0 {
		k = 1
	}
	return &LRUKReplacer{
		k:       k,
		entries: make(map[int]*lrukEntry),
	}
}

func (r *LRUKReplacer) entryLocked(frameID int) *lrukEntry {
	e, ok := r.entries[frameID]
	if !ok {
		e = &lrukEntry{}
		r.entries[frameID] = e
	}
	return e
}

// RecordAccess logs an access to frameID, independent of its pin state.
func (r *LRUKReplacer) RecordAccess(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock++
	e := r.entryLocked(frameID)
	e.history = append(e.history, r.clock)
	if len(e.history) > r.k {
		e.history = e.history[len(e.history)-r.k:]
	}
}

func (r *LRUKReplacer) Pin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entryLocked(frameID).evictable = false
}

func (r *LRUKReplacer) Unpin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entryLocked(frameID).evictable = true
}

// Victim picks the evictable frame with the largest backward k-distance,
// treating frames with fewer than k accesses as having infinite distance
// (oldest earliest-access first among those; a frame with no recorded
// access counts as oldest), and breaks remaining ties by frame id ascending.
func (r *LRUKReplacer) Victim() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bestID := -1
	bestInf := false
	var bestDist int64
	var bestEarliest int64

	for id, e := range r.entries {
		if !e.evictable {
			continue
		}
		inf := len(e.history) < r.k
		var dist int64
		var earliest int64
		if inf {
			if len(e.history) > 0 {
				earliest = e.history[0]
			}
		} else {
			dist = r.clock - e.history[0]
		}

		better := false
		switch {
		case bestID == -1:
			better = true
		case inf && !bestInf:
			better = true
		case inf == bestInf && inf:
			// both infinite: older earliest access wins, then smaller id.
			if earliest < bestEarliest || (earliest == bestEarliest && id < bestID) {
				better = true
			}
		case inf == bestInf && !inf:
			if dist > bestDist || (dist == bestDist && id < bestID) {
				better = true
			}
		case !inf && bestInf:
			better = false
		}

		if better {
			bestID, bestInf, bestDist, bestEarliest = id, inf, dist, earliest
		}
	}

	if bestID == -1 {
		return 0, false
	}
	delete(r.entries, bestID)
	return bestID, true
}

func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.evictable {
			n++
		}
	}
	return n
}
