package classify

// Reason says why an item was hidden. ReasonNone means it is shown.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotNormalContent
	ReasonMissingMetadata
	ReasonFilteredTitleTerm
	ReasonFilteredChannelTerm
	ReasonSubscribed
	ReasonLiveOrWatched
	ReasonOutsideDateWindow
	ReasonOutsideDurationWindow
	ReasonBelowMinimumViews
	ReasonOverThreshold
)

// String returns the reason name used in markers, events, and logs.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotNormalContent:
		return "not-normal-content"
	case ReasonMissingMetadata:
		return "missing-metadata"
	case ReasonFilteredTitleTerm:
		return "filtered-title-term"
	case ReasonFilteredChannelTerm:
		return "filtered-channel-term"
	case ReasonSubscribed:
		return "subscribed"
	case ReasonLiveOrWatched:
		return "live-or-watched"
	case ReasonOutsideDateWindow:
		return "outside-date-window"
	case ReasonOutsideDurationWindow:
		return "outside-duration-window"
	case ReasonBelowMinimumViews:
		return "below-minimum-views"
	case ReasonOverThreshold:
		return "over-threshold"
	default:
		return "unknown"
	}
}

// Decision is the terminal result of one classification pass.
//
// Settled decisions are permanent for the item's remaining lifetime on the
// page: the registry skips settled nodes on later observations. Show and
// live/watched or threshold hides stay unsettled so a later mutation can
// legitimately flip them.
type Decision struct {
	Show    bool
	Reason  Reason
	Settled bool

	// Count is the item's view count after the threshold stage, 0 if the
	// pass never reached that stage.
	Count int64
}

// Hidden reports whether the decision suppresses the item.
func (d Decision) Hidden() bool { return !d.Show }

func show(count int64) Decision {
	return Decision{Show: true, Count: count}
}

func hide(r Reason, settled bool) Decision {
	return Decision{Reason: r, Settled: settled}
}
