// Package engine assembles the filtering pipeline into one explicit
// context object: store, subscription set, classification chain, dedup
// registry, presenter, and the mutation feed adapter.
//
// Nothing in winnow lives in package-level mutable state; construct an
// Engine per process (or per test) and every collaborator hangs off it.
package engine

import (
	"context"

	"github.com/abelbrown/winnow/internal/classify"
	"github.com/abelbrown/winnow/internal/config"
	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/observe"
	"github.com/abelbrown/winnow/internal/present"
	"github.com/abelbrown/winnow/internal/registry"
	"github.com/abelbrown/winnow/internal/store"
	"github.com/abelbrown/winnow/internal/subs"
)

// Engine owns the full classification path for one process.
type Engine struct {
	store     *store.Store
	subs      *subs.Set
	pipeline  *classify.Pipeline
	registry  *registry.Registry
	presenter *present.Presenter
	observer  *observe.Observer
	events    *diag.Logger
}

// New wires an Engine. events may be nil (discarded diagnostics).
func New(cfg *config.Config, st *store.Store, feed observe.Feed, surface present.Surface, events *diag.Logger) *Engine {
	if events == nil {
		events = diag.NewNullLogger()
	}

	e := &Engine{
		store:     st,
		subs:      subs.Load(st),
		registry:  registry.New(),
		presenter: present.New(surface),
		events:    events,
	}
	e.pipeline = classify.New(cfg.ClassifyOptions(), e.subs, st, events, nil)

	e.observer = observe.New(feed, e.processCandidate, e.presenter.Reassert, events, observe.Options{
		InitialRetries:    cfg.InitialRetries,
		NavRetries:        cfg.NavRetries,
		RetryDelay:        cfg.RetryDelay(),
		ReconcileInterval: cfg.ReconcileInterval(),
	})

	events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindStartup, Comp: "engine"})
	return e
}

// Start launches background reconciliation. Context cancellation is the
// only stop mechanism; call Wait after cancel for a clean shutdown.
func (e *Engine) Start(ctx context.Context) {
	e.observer.Start(ctx)
}

// Wait blocks until background work has stopped.
func (e *Engine) Wait() {
	e.observer.Wait()
}

// processCandidate is the single entry point for observed cards: dedup
// guard, classification, bookkeeping, presentation. One candidate's
// failure never blocks the next; everything downstream degrades locally.
func (e *Engine) processCandidate(c observe.Candidate) {
	if !e.registry.ShouldClassify(c.NodeID) {
		e.events.Emit(diag.Event{Level: diag.LevelDebug, Kind: diag.KindSkip, Comp: "engine", Node: c.NodeID, Item: c.Item.ID})
		return
	}

	// The threshold stage must run at most once per logical item per
	// visit, however many times its node mutates.
	counted := c.Item.ID != "" && e.registry.Counted(c.Item.ID)

	d := e.pipeline.ClassifyCounted(c.Item, counted)

	if !counted && d.Count > 0 {
		e.registry.MarkCounted(c.Item.ID)
	}

	e.registry.Record(c.NodeID, c.Item.ID, d)
	e.presenter.Apply(c.NodeID, d)

	reason := ""
	if d.Hidden() {
		reason = d.Reason.String()
	}
	e.events.Decision(c.NodeID, c.Item.ID, reason, d.Count)
	logging.Debug("Classified", "node", c.NodeID, "item", c.Item.ID, "show", d.Show, "reason", d.Reason.String(), "count", d.Count)
}

// PageReady is the initial page-load lifecycle signal.
func (e *Engine) PageReady(loc observe.Location) {
	e.registry.BeginVisit()
	e.presenter.Forget()
	e.observer.PageReady(loc)
}

// NavigationStart tears observation down before the page changes.
func (e *Engine) NavigationStart() {
	e.observer.NavigationStart()
}

// NavigationFinish begins a fresh visit on the new surface.
func (e *Engine) NavigationFinish(loc observe.Location) {
	e.registry.BeginVisit()
	e.presenter.Forget()
	e.observer.NavigationFinish(loc)
}

// Rescan requests an extra coalesced pass over present cards.
func (e *Engine) Rescan() {
	e.observer.Rescan()
}

// SubscriptionScanComplete replaces the subscription set with a fresh
// harvest result.
func (e *Engine) SubscriptionScanComplete(names []string) {
	e.subs.Replace(names)
	e.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindSubsReplace, Comp: "engine", Count: int64(e.subs.Len())})
}

// Subscriptions exposes the live set (read-only use).
func (e *Engine) Subscriptions() *subs.Set { return e.subs }

// Registry exposes the dedup registry for views and stats.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Presenter exposes the presentation adapter.
func (e *Engine) Presenter() *present.Presenter { return e.presenter }

// Store exposes the backing store for maintenance surfaces.
func (e *Engine) Store() *store.Store { return e.store }

// Close emits the shutdown event. The caller owns store and diag logger
// lifetimes (they may outlive the engine in the CLI).
func (e *Engine) Close() {
	e.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindShutdown, Comp: "engine"})
}
