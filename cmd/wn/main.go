// Command wn is the unified CLI for Winnow debugging and maintenance.
//
// Usage:
//
//	wn                      Show help
//	wn stats                Counter and subscription statistics
//	wn counters             Inspect or prune the view counters
//	wn subs                 List or replace the subscription set
//	wn classify             Classify one card descriptor from JSON
//	wn events               JSONL event log viewer
package main

import (
	"fmt"
	"os"
)

const usage = `wn — Winnow debug & maintenance CLI

Usage:
  wn <command> [flags]

Commands:
  stats       Counter statistics and subscription count
  counters    Inspect the most-seen items, or prune low counters
  subs        List subscriptions, or replace them from a file
  classify    Classify a single card descriptor from a JSON file
  events      JSONL event log viewer

Environment:
  WINNOW_HOME  Data directory (default: ~/.winnow)

Run 'wn <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "stats":
		runStats()
	case "counters":
		runCounters()
	case "subs":
		runSubs()
	case "classify":
		runClassify()
	case "events":
		runEvents()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "wn: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
