package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/winnow/internal/config"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	cfg := config.Load()

	stats, err := st.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Counter entries:       %d\n", stats.Entries)
	fmt.Printf("Total recorded views:  %d\n", stats.Total)
	fmt.Printf("Highest counter:       %d\n", stats.Max)
	fmt.Printf("Hide threshold:        %d\n", cfg.Threshold)

	over := 0
	entries, err := st.TopCounters(0)
	if err == nil {
		for _, e := range entries {
			if e.Count > int64(cfg.Threshold) {
				over++
			}
		}
	}
	fmt.Printf("Items over threshold:  %d\n", over)

	names, err := st.Subscriptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Subscriptions:         %d\n", len(names))
}
