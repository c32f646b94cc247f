package main

import (
	"flag"
	"fmt"
	"os"
)

func runCounters() {
	fs := flag.NewFlagSet("counters", flag.ExitOnError)
	top := fs.Int("top", 25, "Number of highest counters to show")
	pruneBelow := fs.Int64("prune-below", 0, "Delete counters below this value (0 = no prune)")
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	if *pruneBelow > 0 {
		removed, err := st.PruneCountersBelow(*pruneBelow)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pruned %d counters below %d\n", removed, *pruneBelow)
		return
	}

	entries, err := st.TopCounters(*top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No counters recorded yet.")
		return
	}

	fmt.Printf("%-16s %s\n", "ITEM", "SEEN")
	for _, e := range entries {
		fmt.Printf("%-16s %d\n", truncate(e.ItemID, 16), e.Count)
	}
}
