package diag

// Goroutine safety:
// The drain goroutine is the sole reader of l.ch and the sole writer to l.w.
// Logger.mu protects only the l.ring pointer (read by drain, written by
// SetRing). The ring's own mu handles concurrent Push/Snapshot calls, and
// drain releases Logger.mu before calling ring.Push, so no nested lock
// acquisition occurs.

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// writerChanSize is the capacity of the async write channel.
const writerChanSize = 4096

// logEntry carries both serialized bytes (for disk) and the original
// Event (for the ring), avoiding a JSON round-trip through the ring.
type logEntry struct {
	data []byte
	ev   Event
}

// Logger serializes events as JSONL via an async background writer.
// Goroutine-safe. All emitted events flow through a buffered channel to a
// drain goroutine that writes to disk and pushes to the ring.
type Logger struct {
	mu        sync.Mutex
	ring      *Ring // nil until SetRing
	sessionID string
	ch        chan logEntry
	w         io.Writer
	dropped   atomic.Uint64 // events dropped due to full channel, encode failure, or write error
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w asynchronously.
// Starts a background drain goroutine. Call Close() to flush and stop.
func NewLogger(w io.Writer) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan logEntry, writerChanSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger creates a Logger that discards output.
// Callers should still call Close() to stop the drain goroutine.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) drain() {
	defer close(l.done)
	for entry := range l.ch {
		if _, err := l.w.Write(entry.data); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()

		if ring != nil {
			ring.Push(entry.ev)
		}
	}
}

// Emit writes an event to the JSONL log (and ring if attached). Sets Time
// (if zero) and SessionID. Goroutine-safe. Non-blocking: if the channel
// is full or the logger is closed, the event is dropped and counted.
//
// Safe to call concurrently with Close(); a racing send on the closed
// channel is recovered and counted as dropped.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	select {
	case l.ch <- logEntry{data: data, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Decision emits a classify.decision event.
func (l *Logger) Decision(nodeID, itemID, reason string, count int64) {
	l.Emit(Event{
		Level: LevelInfo, Kind: KindDecision, Comp: "engine",
		Node: nodeID, Item: itemID, Reason: reason, Count: count,
	})
}

// Error emits an error-level event. Nil err is safe.
func (l *Logger) Error(kind Kind, comp string, err error) {
	errStr := ""
	if err != nil {
		errStr = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: errStr})
}

// SetRing attaches a ring for live inspection.
func (l *Logger) SetRing(r *Ring) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring = r
}

// Dropped returns the number of events dropped since creation.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes pending events and stops the drain goroutine. Safe to
// call while other goroutines may still Emit — those events are dropped,
// not panicked.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "winnow: %d diagnostic events dropped during session %s\n", d, l.sessionID)
		}
	})
}
