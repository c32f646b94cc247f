// Package diag provides structured diagnostics for Winnow.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain
// goroutine. An optional Ring keeps recent events in memory for the debug
// overlay and the wn events viewer.
package diag

import "time"

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Kind identifies the category of a diagnostic event.
// Dot-delimited: "<subsystem>.<action>".
type Kind string

const (
	// Lifecycle events
	KindNavStart  Kind = "nav.start"
	KindNavFinish Kind = "nav.finish"
	KindPageReady Kind = "nav.page_ready"

	// Sweep events (initial full pass over present cards)
	KindSweepStart    Kind = "sweep.start"
	KindSweepRetry    Kind = "sweep.retry"
	KindSweepComplete Kind = "sweep.complete"
	KindSweepStale    Kind = "sweep.stale"

	// Classification events
	KindDecision Kind = "classify.decision"
	KindSkip     Kind = "classify.skip"

	// Parsing and storage failures (classification continues past these)
	KindParseError Kind = "parse.error"
	KindStoreError Kind = "store.error"

	// Subscription set events
	KindSubsReplace Kind = "subs.replace"

	// Presentation reconciliation
	KindReassert Kind = "reconcile.reassert"

	// System events
	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"
)

// Event is the universal diagnostic record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time `json:"t"`
	Level     Level     `json:"level,omitempty"`
	Kind      Kind      `json:"kind"`
	Comp      string    `json:"comp,omitempty"`       // component: "engine", "observe", "subs"
	SessionID string    `json:"session_id,omitempty"` // random hex, same for entire run
	Msg       string    `json:"msg,omitempty"`

	// Classification context
	Item   string `json:"item,omitempty"`   // item id
	Node   string `json:"node,omitempty"`   // node identity
	Reason string `json:"reason,omitempty"` // hide reason, "" when shown
	Count  int64  `json:"count,omitempty"`  // view count at the threshold stage

	// Lifecycle context
	Gen  uint64 `json:"gen,omitempty"`  // observer generation
	Path string `json:"path,omitempty"` // location path

	Err string `json:"err,omitempty"`
}
