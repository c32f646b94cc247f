package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/store"
)

// dataDir returns the data directory, creating it if needed.
func dataDir() string {
	dir := logging.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// dbPath returns the path to winnow.db.
func dbPath() string {
	return filepath.Join(dataDir(), "winnow.db")
}

// eventLogPath returns the path to events.jsonl.
func eventLogPath() string {
	return filepath.Join(dataDir(), "events.jsonl")
}

// openDB opens the store or fatals.
func openDB() *store.Store {
	st, err := store.Open(dbPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
