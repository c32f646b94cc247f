package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/winnow/internal/textnorm"
)

func runSubs() {
	fs := flag.NewFlagSet("subs", flag.ExitOnError)
	replace := fs.String("replace", "", "Replace the subscription set from a file (one channel per line)")
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	if *replace != "" {
		f, err := os.Open(*replace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		var names []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			name := textnorm.Normalize(strings.TrimSpace(scanner.Text()))
			if name != "" {
				names = append(names, name)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		if err := st.ReplaceSubscriptions(names); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Replaced subscription set: %d channels\n", len(names))
		return
	}

	names, err := st.Subscriptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Println("No subscriptions recorded. Run a scan in the TUI, or use --replace.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}
