package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// eventRecord mirrors diag.Event for JSON decoding.
// We decode from JSONL rather than importing diag so this subcommand
// stays usable even if the event schema evolves.
type eventRecord struct {
	Time      time.Time `json:"t"`
	Level     string    `json:"level"`
	Kind      string    `json:"kind"`
	Comp      string    `json:"comp"`
	SessionID string    `json:"session_id"`
	Msg       string    `json:"msg"`
	Item      string    `json:"item"`
	Node      string    `json:"node"`
	Reason    string    `json:"reason"`
	Count     int64     `json:"count"`
	Gen       uint64    `json:"gen"`
	Path      string    `json:"path"`
	Err       string    `json:"err"`
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Follow mode (like tail -f)")
	kind := fs.String("kind", "", "Filter by event kind prefix (e.g. 'classify')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	comp := fs.String("comp", "", "Filter by component name")
	item := fs.String("item", "", "Filter by item id")
	rawJSON := fs.Bool("json", false, "Output raw JSON lines")
	fs.Parse(os.Args[1:])

	logPath := eventLogPath()

	f, err := os.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Event log not found at %s\n", logPath)
		fmt.Fprintf(os.Stderr, "  Run the winnow TUI first to generate events.\n")
		os.Exit(1)
	}
	defer f.Close()

	minLevel := levelRank(*level)

	matchFn := func(ev eventRecord) bool {
		if *kind != "" && !strings.HasPrefix(ev.Kind, *kind) {
			return false
		}
		if *level != "" && levelRank(ev.Level) < minLevel {
			return false
		}
		if *comp != "" && ev.Comp != *comp {
			return false
		}
		if *item != "" && ev.Item != *item {
			return false
		}
		return true
	}

	formatFn := func(ev eventRecord, raw []byte) string {
		if *rawJSON {
			return string(raw)
		}
		ts := ev.Time.Format("15:04:05.000")
		lvl := strings.ToUpper(ev.Level)
		if lvl == "" {
			lvl = "?"
		}

		parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-20s", ts, lvl, ev.Comp, ev.Kind)}

		if ev.Msg != "" {
			parts = append(parts, ev.Msg)
		}
		if ev.Item != "" {
			parts = append(parts, "item="+ev.Item)
		}
		if ev.Reason != "" {
			parts = append(parts, "reason="+ev.Reason)
		}
		if ev.Count > 0 {
			parts = append(parts, fmt.Sprintf("seen=%d", ev.Count))
		}
		if ev.Gen > 0 {
			parts = append(parts, fmt.Sprintf("gen=%d", ev.Gen))
		}
		if ev.Path != "" {
			parts = append(parts, "path="+ev.Path)
		}
		if ev.Err != "" {
			parts = append(parts, "err="+ev.Err)
		}

		return strings.Join(parts, " ")
	}

	// Read all lines, keep last N matching
	if !*follow {
		lines := readTailLines(f, *tail, matchFn)
		for _, l := range lines {
			fmt.Println(formatFn(l.ev, l.raw))
		}
		return
	}

	// Follow mode: print last N then poll for new lines
	lines := readTailLines(f, *tail, matchFn)
	for _, l := range lines {
		fmt.Println(formatFn(l.ev, l.raw))
	}

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if matchFn(ev) {
			fmt.Println(formatFn(ev, line))
		}
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads the file and returns the last n lines matching the
// filter. A non-positive n returns every matching line.
func readTailLines(f *os.File, n int, match func(eventRecord) bool) []parsedLine {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	unlimited := n <= 0
	var ring []parsedLine
	if !unlimited {
		ring = make([]parsedLine, 0, n)
	}

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !match(ev) {
			continue
		}
		// Make a copy of raw since scanner reuses the buffer
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if unlimited || len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
		} else {
			// Shift left
			copy(ring, ring[1:])
			ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
		}
	}

	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
