// Package classify implements the ordered predicate chain that decides
// whether a feed item is shown or suppressed.
//
// The chain is short-circuiting: the first matching predicate wins. Cheap
// structural checks run first, checks against external state after, and
// the one stage with a side effect (the persistent view-count increment)
// runs strictly last, so an item excluded for any other reason never
// spends a counter increment.
package classify

import (
	"time"

	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/textnorm"
)

// DefaultThreshold is the view count above which an item is hidden.
const DefaultThreshold = 10

// Counters is the persistent per-item view counter the final stage uses.
// *store.Store satisfies it.
type Counters interface {
	Count(itemID string) (int64, error)
	Increment(itemID string) (int64, error)
}

// Subscriptions answers membership for normalized channel names.
// *subs.Set satisfies it.
type Subscriptions interface {
	Contains(name string) bool
}

// DurationWindow bounds item duration in seconds. A zero Min or Max
// leaves that side unbounded.
type DurationWindow struct {
	Min int
	Max int
}

// DateWindow bounds the publish date, inclusive on both ends. A zero
// After or Before leaves that side unbounded. A positive MaxAge hides
// items published more than MaxAge before the evaluation time.
type DateWindow struct {
	After  time.Time
	Before time.Time
	MaxAge time.Duration
}

// Options holds the static filtering configuration.
type Options struct {
	Threshold    int64
	MinimumViews int64

	DurationWindow *DurationWindow
	DateWindow     *DateWindow

	FilteredTitleTerms   []string
	FilteredChannelTerms []string
}

// DefaultOptions returns the stock configuration: threshold 10, no
// minimum views, no windows, no filtered terms.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Pipeline evaluates items against the configured predicates, the
// subscription set, and the counter store.
type Pipeline struct {
	opts     Options
	subs     Subscriptions
	counters Counters
	events   *diag.Logger
	now      func() time.Time
}

// New creates a Pipeline. events may be nil (failures go to the file log
// only); now may be nil, in which case time.Now is used.
func New(opts Options, subs Subscriptions, counters Counters, events *diag.Logger, now func() time.Time) *Pipeline {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &Pipeline{opts: opts, subs: subs, counters: counters, events: events, now: now}
}

// Classify runs the full chain, including the counter increment at the
// final stage.
func (p *Pipeline) Classify(item Item) Decision {
	return p.ClassifyCounted(item, false)
}

// ClassifyCounted runs the chain; when alreadyCounted is true the final
// stage reads the stored count instead of incrementing, so re-observing
// the same logical item within one page visit cannot double-count it.
func (p *Pipeline) ClassifyCounted(item Item, alreadyCounted bool) Decision {
	// 1. Structural exclusion: playlists, channel shelves, and mixes are
	// never shown, whatever their other fields say.
	switch item.ContentType {
	case ContentPlaylist, ContentChannel, ContentMix:
		return hide(ReasonNotNormalContent, true)
	}

	// 2. Unresolvable item: without a stable id it can never be counted
	// safely, so it stays hidden rather than risk miscounting.
	if item.ID == "" || item.Title == "" {
		return hide(ReasonMissingMetadata, true)
	}

	// 3. Title term filter.
	for _, term := range p.opts.FilteredTitleTerms {
		if textnorm.ContainsTerm(item.Title, term) {
			return hide(ReasonFilteredTitleTerm, true)
		}
	}

	// 4. Channel unresolved.
	if item.ChannelName == "" {
		return hide(ReasonMissingMetadata, true)
	}

	// 5. Channel term filter.
	for _, term := range p.opts.FilteredChannelTerms {
		if textnorm.ContainsTerm(item.ChannelName, term) {
			return hide(ReasonFilteredChannelTerm, true)
		}
	}

	// 6. Subscription exclusion: the user already sees these through
	// their subscription feed.
	if p.subs != nil && p.subs.Contains(item.ChannelName) {
		return hide(ReasonSubscribed, true)
	}

	// 7. Live streams and partially-watched items. Unsettled: a stream
	// ends, a progress bar appears; later observations re-evaluate.
	if item.IsLive || item.HasWatchProgress {
		return hide(ReasonLiveOrWatched, false)
	}

	// 8. Date window. An unknown publish date skips the check.
	if w := p.opts.DateWindow; w != nil && !item.Published.IsZero() {
		if !w.After.IsZero() && item.Published.Before(w.After) {
			return hide(ReasonOutsideDateWindow, true)
		}
		if !w.Before.IsZero() && item.Published.After(w.Before) {
			return hide(ReasonOutsideDateWindow, true)
		}
		if w.MaxAge > 0 && item.Published.Before(p.now().Add(-w.MaxAge)) {
			return hide(ReasonOutsideDateWindow, true)
		}
	}

	// 9. Duration window. Music cards are exempt; unknown duration skips.
	if w := p.opts.DurationWindow; w != nil && !item.IsMusicException && item.DurationSeconds >= 0 {
		if w.Min > 0 && item.DurationSeconds < w.Min {
			return hide(ReasonOutsideDurationWindow, true)
		}
		if w.Max > 0 && item.DurationSeconds > w.Max {
			return hide(ReasonOutsideDurationWindow, true)
		}
	}

	// 10. Minimum views. A card with no view-count text skips the check.
	if item.ViewCountRaw != "" && item.ViewCount < p.opts.MinimumViews {
		return hide(ReasonBelowMinimumViews, true)
	}

	// 11. Threshold. The only stage that touches the counter, and only
	// reached when every other predicate passed.
	var count int64
	var err error
	if alreadyCounted {
		count, err = p.counters.Count(item.ID)
	} else {
		count, err = p.counters.Increment(item.ID)
	}
	if err != nil {
		// Counter unavailable: show rather than hide on broken state, and
		// leave Count zero so the caller does not mark the item counted.
		logging.Error("Counter store failure", "item", item.ID, "error", err)
		if p.events != nil {
			p.events.Emit(diag.Event{
				Level: diag.LevelError,
				Kind:  diag.KindStoreError,
				Comp:  "classify",
				Item:  item.ID,
				Err:   err.Error(),
			})
		}
		return Decision{Show: true}
	}

	if count > p.opts.Threshold {
		return Decision{Reason: ReasonOverThreshold, Count: count}
	}
	return show(count)
}
