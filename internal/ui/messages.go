// Package ui provides the Bubble Tea TUI for the Winnow simulator.
package ui

// Row is one card on the simulated page, joined with its current
// classification outcome.
type Row struct {
	NodeID  string
	ItemID  string
	Title   string
	Channel string
	Views   string
	Count   int64
	Live    bool
	Hidden  bool
	Reason  string // hide reason marker, "" when shown
}

// RowsLoaded is sent when the current page has been classified and joined
// with surface state.
type RowsLoaded struct {
	Rows []Row
	Page int
	Subs int
	Err  error
}

// NavigationDone is sent when a simulated navigation has finished and the
// new page has been swept.
type NavigationDone struct {
	Page int
}

// ScanComplete is sent when a simulated subscription scan has replaced
// the subscription set.
type ScanComplete struct {
	Count int
}

// ChurnTick triggers a round of simulated card mutations.
type ChurnTick struct{}
