// Package present applies classification decisions to the visual state of
// feed nodes.
//
// The Presenter is deliberately dumb: it records what was applied, applies
// only changes (no flicker on redundant decisions), and can re-assert a
// hidden state that external style churn has undone. It never classifies.
package present

import (
	"sync"

	"github.com/abelbrown/winnow/internal/classify"
)

// Surface is the host-page visibility control the presenter drives. The
// browser shim implements it against real nodes; the simulator and tests
// use MemorySurface.
type Surface interface {
	// SetHidden marks the node hidden with a durable reason marker.
	SetHidden(nodeID, reason string)

	// SetVisible clears the marker and restores the node.
	SetVisible(nodeID string)

	// IsHidden reports the node's current surface state and marker.
	IsHidden(nodeID string) (bool, string)
}

// Presenter applies decisions idempotently and remembers what it applied.
// Thread-safe.
type Presenter struct {
	mu      sync.RWMutex
	surface Surface
	applied map[string]classify.Decision
}

// New creates a Presenter over the given surface.
func New(surface Surface) *Presenter {
	return &Presenter{surface: surface, applied: make(map[string]classify.Decision)}
}

// Apply drives the surface to match the decision. Re-applying an
// identical decision is a no-op with no observable surface calls.
func (p *Presenter) Apply(nodeID string, d classify.Decision) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, seen := p.applied[nodeID]
	if seen && sameOutcome(prev, d) {
		p.applied[nodeID] = d // keep latest count
		return
	}
	p.applied[nodeID] = d

	if d.Hidden() {
		p.surface.SetHidden(nodeID, d.Reason.String())
	} else {
		p.surface.SetVisible(nodeID)
	}
}

// sameOutcome reports whether two decisions are observably identical on
// the surface: same visibility and, when hidden, same reason marker.
func sameOutcome(a, b classify.Decision) bool {
	if a.Show != b.Show {
		return false
	}
	if a.Show {
		return true
	}
	return a.Reason == b.Reason
}

// Applied returns the last decision applied to a node.
func (p *Presenter) Applied(nodeID string) (classify.Decision, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.applied[nodeID]
	return d, ok
}

// Reassert re-hides every node whose recorded decision is a hide but
// whose surface no longer agrees. It consults only recorded state; it
// never reclassifies. Returns the number of nodes re-hidden.
func (p *Presenter) Reassert() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	fixed := 0
	for nodeID, d := range p.applied {
		if !d.Hidden() {
			continue
		}
		if hidden, _ := p.surface.IsHidden(nodeID); !hidden {
			p.surface.SetHidden(nodeID, d.Reason.String())
			fixed++
		}
	}
	return fixed
}

// Forget drops all recorded per-node state. Called on navigation: the
// nodes of the previous page are gone.
func (p *Presenter) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied = make(map[string]classify.Decision)
}

// MemorySurface is a map-backed Surface for the simulator and tests.
// Thread-safe. It also counts mutating calls so idempotence is testable.
type MemorySurface struct {
	mu     sync.RWMutex
	hidden map[string]string // node id -> reason marker
	calls  int
}

// NewMemorySurface creates an empty MemorySurface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{hidden: make(map[string]string)}
}

// SetHidden implements Surface.
func (m *MemorySurface) SetHidden(nodeID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden[nodeID] = reason
	m.calls++
}

// SetVisible implements Surface.
func (m *MemorySurface) SetVisible(nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hidden, nodeID)
	m.calls++
}

// IsHidden implements Surface.
func (m *MemorySurface) IsHidden(nodeID string) (bool, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reason, ok := m.hidden[nodeID]
	return ok, reason
}

// Clobber simulates external interference clearing a node's hidden state
// without going through the presenter.
func (m *MemorySurface) Clobber(nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hidden, nodeID)
}

// Calls returns the number of mutating surface calls so far.
func (m *MemorySurface) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
