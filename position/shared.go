package position

import "sync"

// Shared wraps a Position so it can be referenced from the sweep's heap, its
// dequeue, and zero or more report fragments at once without copying.
//
// The original implementation reference-counts positions with an atomic Arc
// and additionally wraps each one in a Mutex so a downstream aggregator
// (outside this core) can safely mutate a projection field after the report
// is built. In Go, sharing a single *Shared pointer already gives us
// reference counting for free via the garbage collector, so Shared only
// needs to carry the Mutex.
//
// The core itself never calls Lock: it treats a Position as immutable from
// the moment it is read off a PositionedIterator. The mutex exists purely at
// this sharing boundary for callers outside the core.
type Shared struct {
	mu  sync.Mutex
	pos Position
}

// NewShared wraps p for sharing.
func NewShared(p Position) *Shared {
	return &Shared{pos: p}
}

// Position returns the wrapped Position. Safe to call concurrently.
func (s *Shared) Position() Position {
	return s.pos
}

// Lock acquires the mutex guarding mutation of the wrapped Position. The
// core never calls this; it exists for downstream aggregators that mutate
// projection fields after a Report has been built. TryLock failing inside
// the core's own single-threaded execution would indicate a programming
// error: nothing in this package contends for the lock concurrently.
func (s *Shared) Lock() { s.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (s *Shared) Unlock() { s.mu.Unlock() }

// TryLock attempts to acquire the mutex without blocking.
func (s *Shared) TryLock() bool { return s.mu.TryLock() }
