// Package registry tracks which observed nodes have been classified and
// guards the counter against double increments.
//
// Two identities are in play: the node identity (one physical card in the
// page, which may be observed many times as it mutates) and the item id
// (the logical media item, which may appear on several nodes). Settling is
// per node; increment accounting is per item id per page visit.
package registry

import (
	"sync"

	"github.com/abelbrown/winnow/internal/classify"
)

// Entry records the last decision applied to a node.
type Entry struct {
	NodeID   string
	ItemID   string
	Decision classify.Decision
}

// Registry is the dedup guard. Thread-safe.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[string]Entry    // node id -> last decision
	order   []string            // node ids in first-observation order
	counted map[string]struct{} // item ids incremented this visit
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		nodes:   make(map[string]Entry),
		counted: make(map[string]struct{}),
	}
}

// ShouldClassify reports whether a node needs (re)classification.
// Settled nodes are skipped forever; everything else reclassifies on
// every observation.
func (r *Registry) ShouldClassify(nodeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.nodes[nodeID]
	return !ok || !e.Decision.Settled
}

// Record stores the decision for a node.
func (r *Registry) Record(nodeID, itemID string, d classify.Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.nodes[nodeID]; !seen {
		r.order = append(r.order, nodeID)
	}
	r.nodes[nodeID] = Entry{NodeID: nodeID, ItemID: itemID, Decision: d}
}

// Counted reports whether the threshold stage already ran for this
// logical item during the current visit.
func (r *Registry) Counted(itemID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.counted[itemID]
	return ok
}

// MarkCounted records that the threshold stage ran for this item.
func (r *Registry) MarkCounted(itemID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counted[itemID] = struct{}{}
}

// BeginVisit resets all per-visit state. Called on navigation-finish:
// a new page means new nodes and a fresh increment budget per item.
func (r *Registry) BeginVisit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = make(map[string]Entry)
	r.order = nil
	r.counted = make(map[string]struct{})
}

// Snapshot returns all entries in first-observation order.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.nodes[id])
	}
	return out
}

// Len returns the number of tracked nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
