package observe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/winnow/internal/classify"
)

// fakeFeed is a scriptable Feed for adapter tests.
type fakeFeed struct {
	mu        sync.Mutex
	snapshot  []Candidate
	snapCalls int
	subs      map[int]func(Candidate)
	nextSub   int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: make(map[int]func(Candidate))}
}

func (f *fakeFeed) Snapshot() []Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapCalls++
	return append([]Candidate(nil), f.snapshot...)
}

func (f *fakeFeed) Subscribe(fn func(Candidate)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeFeed) setSnapshot(cands ...Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = cands
}

func (f *fakeFeed) emit(c Candidate) {
	f.mu.Lock()
	fns := make([]func(Candidate), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func (f *fakeFeed) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// recorder counts processed candidates.
type recorder struct {
	mu    sync.Mutex
	nodes []string
}

func (r *recorder) process(c Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, c.NodeID)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

func cand(nodeID string) Candidate {
	return Candidate{NodeID: nodeID, Item: classify.Item{ID: "vid-" + nodeID, Title: "t"}}
}

func TestLocationSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/watch", true},
		{"/watch?v=abc", true},
		{"/feed/channels", true},
		{"/feed/history", false},
		{"/results", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Location{Path: tt.path}).Supported(); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPageReadyProcessesPresentCards(t *testing.T) {
	feed := newFakeFeed()
	feed.setSnapshot(cand("a"), cand("b"))
	rec := &recorder{}

	o := New(feed, rec.process, nil, nil, DefaultOptions())
	o.PageReady(Location{Path: "/"})

	if rec.count() != 2 {
		t.Errorf("expected 2 processed, got %d", rec.count())
	}
	if !o.Active() {
		t.Error("observer should be active on a supported surface")
	}
	if feed.subscriberCount() != 1 {
		t.Errorf("expected 1 subscription, got %d", feed.subscriberCount())
	}
}

func TestUnsupportedSurfaceStaysIdle(t *testing.T) {
	feed := newFakeFeed()
	feed.setSnapshot(cand("a"))
	rec := &recorder{}

	o := New(feed, rec.process, nil, nil, DefaultOptions())
	o.PageReady(Location{Path: "/results"})

	if rec.count() != 0 {
		t.Errorf("processed %d candidates on unsupported surface", rec.count())
	}
	if o.Active() {
		t.Error("observer active on unsupported surface")
	}
}

func TestSubscriptionDeliversNewCards(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	o := New(feed, rec.process, nil, nil, opts)
	o.PageReady(Location{Path: "/"})

	feed.emit(cand("late"))
	if rec.count() != 1 {
		t.Errorf("expected late candidate processed, got %d", rec.count())
	}
}

func TestRetryUntilCardsAppear(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 5
	opts.RetryDelay = 10 * time.Millisecond
	o := New(feed, rec.process, nil, nil, opts)

	o.PageReady(Location{Path: "/"})
	if rec.count() != 0 {
		t.Fatalf("nothing to process yet, got %d", rec.count())
	}

	// Cards appear before the budget runs out.
	feed.setSnapshot(cand("a"))

	deadline := time.After(time.Second)
	for rec.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("retry never picked up the card")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRetryBudgetExhaustedStillSubscribes(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 2
	opts.RetryDelay = 5 * time.Millisecond
	o := New(feed, rec.process, nil, nil, opts)

	o.PageReady(Location{Path: "/"})

	deadline := time.After(time.Second)
	for feed.subscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscription never installed after budget exhaustion")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The adapter proceeds regardless; later insertions still arrive.
	feed.emit(cand("late"))
	if rec.count() != 1 {
		t.Errorf("late candidate not processed, got %d", rec.count())
	}
}

func TestNavigationStartCancelsScheduledRetry(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 3
	opts.RetryDelay = 30 * time.Millisecond
	o := New(feed, rec.process, nil, nil, opts)

	// Empty page: a retry gets scheduled.
	o.PageReady(Location{Path: "/"})

	// Navigation begins before the retry fires; cards appear afterwards
	// (they belong to the next page).
	o.NavigationStart()
	feed.setSnapshot(cand("next-page"))

	time.Sleep(150 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("stale retry classified %d cards after navigation", rec.count())
	}
	if o.Active() {
		t.Error("observer should be idle after navigation start")
	}
}

func TestNavigationFinishStartsFreshGeneration(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	opts.NavRetries = 0
	o := New(feed, rec.process, nil, nil, opts)

	feed.setSnapshot(cand("a"))
	o.PageReady(Location{Path: "/"})
	gen1 := o.Generation()

	o.NavigationStart()
	feed.setSnapshot(cand("b"))
	o.NavigationFinish(Location{Path: "/watch?v=x"})

	if o.Generation() <= gen1 {
		t.Error("generation must advance across navigations")
	}
	if rec.count() != 2 {
		t.Errorf("expected both pages swept, got %d", rec.count())
	}
	if feed.subscriberCount() != 1 {
		t.Errorf("old subscription leaked: %d active", feed.subscriberCount())
	}
}

func TestStaleSubscriptionCallbackIgnored(t *testing.T) {
	feed := newFakeFeed()
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	o := New(feed, rec.process, nil, nil, opts)

	feed.setSnapshot()
	o.PageReady(Location{Path: "/"})

	// Capture the old generation's callback before teardown.
	feed.mu.Lock()
	var stale func(Candidate)
	for _, fn := range feed.subs {
		stale = fn
	}
	feed.mu.Unlock()

	o.NavigationStart()

	if stale != nil {
		stale(cand("ghost"))
	}
	if rec.count() != 0 {
		t.Errorf("stale callback classified %d cards", rec.count())
	}
}

func TestReentrantActivationIdempotent(t *testing.T) {
	feed := newFakeFeed()
	feed.setSnapshot(cand("a"))
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	o := New(feed, rec.process, nil, nil, opts)

	o.PageReady(Location{Path: "/"})
	o.PageReady(Location{Path: "/"}) // re-entry while Active

	if feed.subscriberCount() != 1 {
		t.Errorf("re-activation leaked subscriptions: %d", feed.subscriberCount())
	}
}

func TestRescanCoalesced(t *testing.T) {
	feed := newFakeFeed()
	feed.setSnapshot(cand("a"))
	rec := &recorder{}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	o := New(feed, rec.process, nil, nil, opts)
	o.PageReady(Location{Path: "/"})

	base := rec.count()
	// Burst of rescans: the limiter lets a couple through, then coalesces.
	for i := 0; i < 20; i++ {
		o.Rescan()
	}
	extra := rec.count() - base
	if extra == 0 {
		t.Error("rescan never ran")
	}
	if extra > 2 {
		t.Errorf("rescan burst not coalesced: %d extra passes", extra)
	}
}

func TestReconcileLoop(t *testing.T) {
	feed := newFakeFeed()
	var mu sync.Mutex
	reasserts := 0
	reassert := func() int {
		mu.Lock()
		defer mu.Unlock()
		reasserts++
		return 0
	}

	opts := DefaultOptions()
	opts.InitialRetries = 0
	opts.ReconcileInterval = 10 * time.Millisecond
	o := New(feed, func(Candidate) {}, reassert, nil, opts)

	ctx, cancel := context.WithCancel(context.Background())
	o.Start(ctx)
	o.PageReady(Location{Path: "/"})

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := reasserts
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reconciliation never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	o.Wait()
}
