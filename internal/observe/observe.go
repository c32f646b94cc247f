// Package observe adapts the host page's mutation and lifecycle signals
// into classification work.
//
// The adapter is a two-state machine (Idle, Active). Arriving on a
// supported surface tears down any prior subscription, sweeps the cards
// already present (retrying with bounded backoff, since cards rarely
// exist immediately after a navigation), then subscribes for future
// insertions. Navigation away tears everything down.
//
// Every deferred callback carries the generation current when it was
// scheduled; a bumped generation invalidates it. That is the only defense
// against a stale retry from a previous page classifying cards on the
// next one, so nothing here may touch state without checking it.
package observe

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/winnow/internal/classify"
	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/logging"
)

// Candidate is one observed card: a node identity plus its extracted
// descriptor.
type Candidate struct {
	NodeID string
	Item   classify.Item
}

// Feed is the abstract mutation feed. The browser shim implements it
// against a MutationObserver; the simulator implements it in memory.
//
// Subscribe registers a callback for future candidates and returns a
// cancel function. Implementations must not invoke the callback
// synchronously from inside Subscribe.
type Feed interface {
	Snapshot() []Candidate
	Subscribe(fn func(Candidate)) (cancel func())
}

// Location describes where the host application currently is.
type Location struct {
	Path string
}

// Supported reports whether filtering runs on this surface: the home
// feed, watch pages, and the subscription-list page.
func (l Location) Supported() bool {
	return l.Path == "/" ||
		strings.HasPrefix(l.Path, "/watch") ||
		l.Path == "/feed/channels"
}

// Options tunes sweep retries and reconciliation.
type Options struct {
	InitialRetries    int           // sweep retries on page ready
	NavRetries        int           // sweep retries after navigation
	RetryDelay        time.Duration // delay between sweep retries
	ReconcileInterval time.Duration // hidden-state reassertion period
}

// DefaultOptions mirrors the stock behavior: 3 retries at startup, 8
// after a navigation, 500ms apart, reconciling every second.
func DefaultOptions() Options {
	return Options{
		InitialRetries:    3,
		NavRetries:        8,
		RetryDelay:        500 * time.Millisecond,
		ReconcileInterval: time.Second,
	}
}

// Observer is the mutation feed adapter. All candidate processing is
// serialized through its mutex, preserving the cooperative
// single-threaded execution model whatever goroutine a signal arrives on.
type Observer struct {
	mu       sync.Mutex
	feed     Feed
	process  func(Candidate)
	reassert func() int
	events   *diag.Logger
	opts     Options

	active    bool
	gen       uint64
	cancelSub func()
	limiter   *rate.Limiter // coalesces burst rescans

	wg sync.WaitGroup
}

// New creates an Observer. process receives every candidate to classify;
// reassert re-applies recorded hidden state (may be nil to disable
// reconciliation checks). events may be nil.
func New(feed Feed, process func(Candidate), reassert func() int, events *diag.Logger, opts Options) *Observer {
	if events == nil {
		events = diag.NewNullLogger()
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.ReconcileInterval <= 0 {
		opts.ReconcileInterval = time.Second
	}
	return &Observer{
		feed:     feed,
		process:  process,
		reassert: reassert,
		events:   events,
		opts:     opts,
		// One rescan per second, small burst for genuine double signals.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Start launches the reconciliation loop. Call with a cancellable
// context; cancellation is the only stop mechanism.
func (o *Observer) Start(ctx context.Context) {
	if o.reassert == nil {
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ticker := time.NewTicker(o.opts.ReconcileInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				o.reconcile()
			}
		}
	}()
}

// Wait blocks until the reconciliation goroutine exits.
// Call after canceling the context passed to Start.
func (o *Observer) Wait() {
	o.wg.Wait()
}

func (o *Observer) reconcile() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	if fixed := o.reassert(); fixed > 0 {
		o.events.Emit(diag.Event{Level: diag.LevelWarn, Kind: diag.KindReassert, Comp: "observe", Count: int64(fixed)})
	}
}

// PageReady handles the initial page-load signal.
func (o *Observer) PageReady(loc Location) {
	o.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindPageReady, Comp: "observe", Path: loc.Path})
	o.activate(loc, o.opts.InitialRetries)
}

// NavigationStart tears down observation before the page changes. Any
// scheduled sweep retry from the old page is invalidated here.
func (o *Observer) NavigationStart() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	o.teardownLocked()
	o.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindNavStart, Comp: "observe", Gen: o.gen})
}

// NavigationFinish re-activates on the new surface. Post-navigation
// sweeps get a larger retry budget because the new page renders lazily.
func (o *Observer) NavigationFinish(loc Location) {
	o.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindNavFinish, Comp: "observe", Path: loc.Path})
	o.activate(loc, o.opts.NavRetries)
}

// Active reports whether the observer currently processes candidates.
func (o *Observer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Generation returns the current generation counter, for inspection.
func (o *Observer) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// activate is idempotent: re-entry while already Active tears down the
// old subscription first and never errors.
func (o *Observer) activate(loc Location, retries int) {
	o.mu.Lock()

	o.gen++
	gen := o.gen
	o.teardownLocked()

	if !loc.Supported() {
		o.mu.Unlock()
		logging.Debug("Unsupported surface, observer idle", "path", loc.Path)
		return
	}

	o.active = true
	o.mu.Unlock()

	o.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindSweepStart, Comp: "observe", Gen: gen, Path: loc.Path})
	o.sweep(gen, retries)
}

// sweep runs one pass over the currently-present candidates. If none are
// found and budget remains, it reschedules itself; either way the pass
// that finally runs installs the forward subscription.
func (o *Observer) sweep(gen uint64, remaining int) {
	o.mu.Lock()

	if gen != o.gen || !o.active {
		o.mu.Unlock()
		o.events.Emit(diag.Event{Level: diag.LevelDebug, Kind: diag.KindSweepStale, Comp: "observe", Gen: gen})
		return
	}

	cands := o.feed.Snapshot()
	if len(cands) == 0 && remaining > 0 {
		o.mu.Unlock()
		o.events.Emit(diag.Event{Level: diag.LevelDebug, Kind: diag.KindSweepRetry, Comp: "observe", Gen: gen})
		time.AfterFunc(o.opts.RetryDelay, func() {
			o.sweep(gen, remaining-1)
		})
		return
	}

	for _, c := range cands {
		o.process(c)
	}

	// Future insertions and attribute changes flow through the
	// subscription, tagged with this generation.
	o.cancelSub = o.feed.Subscribe(func(c Candidate) {
		o.onCandidate(gen, c)
	})
	o.mu.Unlock()

	o.events.Emit(diag.Event{Level: diag.LevelInfo, Kind: diag.KindSweepComplete, Comp: "observe", Gen: gen, Count: int64(len(cands))})
}

func (o *Observer) onCandidate(gen uint64, c Candidate) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen || !o.active {
		return
	}
	o.process(c)
}

// Rescan runs an extra full pass over present candidates, used when the
// host app signals a soft content refresh. Bursts are coalesced through
// the rate limiter so attribute flapping cannot melt the pipeline.
func (o *Observer) Rescan() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active || !o.limiter.Allow() {
		return
	}
	for _, c := range o.feed.Snapshot() {
		o.process(c)
	}
}

// teardownLocked cancels the feed subscription and leaves Idle state.
// Caller holds o.mu.
func (o *Observer) teardownLocked() {
	if o.cancelSub != nil {
		o.cancelSub()
		o.cancelSub = nil
	}
	o.active = false
}
