package present

import (
	"testing"

	"github.com/abelbrown/winnow/internal/classify"
)

func hideDecision(r classify.Reason) classify.Decision {
	return classify.Decision{Reason: r, Settled: true}
}

func showDecision() classify.Decision {
	return classify.Decision{Show: true, Count: 1}
}

func TestApplyHideAndShow(t *testing.T) {
	surface := NewMemorySurface()
	p := New(surface)

	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	hidden, reason := surface.IsHidden("node-1")
	if !hidden || reason != "subscribed" {
		t.Errorf("expected hidden with reason marker, got %v %q", hidden, reason)
	}

	p.Apply("node-2", showDecision())
	if hidden, _ := surface.IsHidden("node-2"); hidden {
		t.Error("shown node reported hidden")
	}
}

func TestApplyIdempotent(t *testing.T) {
	surface := NewMemorySurface()
	p := New(surface)

	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	calls := surface.Calls()

	// Same decision again: no surface traffic at all.
	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	if surface.Calls() != calls {
		t.Errorf("redundant Apply touched the surface (%d -> %d calls)", calls, surface.Calls())
	}

	// Same visibility with a higher count is also a no-op.
	p.Apply("node-2", showDecision())
	calls = surface.Calls()
	d := showDecision()
	d.Count = 5
	p.Apply("node-2", d)
	if surface.Calls() != calls {
		t.Error("count-only change touched the surface")
	}
}

func TestApplyChangeOfReasonReapplies(t *testing.T) {
	surface := NewMemorySurface()
	p := New(surface)

	p.Apply("node-1", hideDecision(classify.ReasonLiveOrWatched))
	p.Apply("node-1", hideDecision(classify.ReasonOverThreshold))

	_, reason := surface.IsHidden("node-1")
	if reason != "over-threshold" {
		t.Errorf("expected updated reason marker, got %q", reason)
	}
}

func TestReassert(t *testing.T) {
	surface := NewMemorySurface()
	p := New(surface)

	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	p.Apply("node-2", showDecision())

	// External interference reveals the hidden node.
	surface.Clobber("node-1")

	fixed := p.Reassert()
	if fixed != 1 {
		t.Errorf("expected 1 node re-hidden, got %d", fixed)
	}
	hidden, reason := surface.IsHidden("node-1")
	if !hidden || reason != "subscribed" {
		t.Errorf("node not re-hidden: %v %q", hidden, reason)
	}

	// Steady state: nothing to fix.
	if fixed := p.Reassert(); fixed != 0 {
		t.Errorf("expected no work on second pass, got %d", fixed)
	}
}

func TestForget(t *testing.T) {
	surface := NewMemorySurface()
	p := New(surface)

	p.Apply("node-1", hideDecision(classify.ReasonSubscribed))
	p.Forget()

	if _, ok := p.Applied("node-1"); ok {
		t.Error("state survived Forget")
	}
	surface.Clobber("node-1")
	if fixed := p.Reassert(); fixed != 0 {
		t.Error("Reassert acted on forgotten nodes")
	}
}
