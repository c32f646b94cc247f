package diag

import "sync"

// DefaultRingSize is the default ring capacity.
const DefaultRingSize = 1024

// Ring is a fixed-size circular buffer of Events.
// Goroutine-safe for concurrent Push and read operations.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
}

// NewRing creates a ring with the given capacity.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{
		buf:  make([]Event, size),
		size: size,
	}
}

// Push adds an event, overwriting the oldest if full.
func (r *Ring) Push(e Event) {
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	r.mu.Unlock()
}

// Snapshot returns a copy of all events in chronological order (oldest
// first). The returned slice is safe to use without locks.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil
	}

	result := make([]Event, r.count)
	if r.count < r.size {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.head:])
		copy(result[n:], r.buf[:r.head])
	}
	return result
}

// Last returns up to n most recent events, oldest first.
func (r *Ring) Last(n int) []Event {
	all := r.Snapshot()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Len returns the number of buffered events.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return r.size
}

// Stats counts buffered events by kind.
func (r *Ring) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	for _, e := range r.Snapshot() {
		stats[e.Kind]++
	}
	return stats
}
