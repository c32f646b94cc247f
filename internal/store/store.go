// Package store provides SQLite persistence for Winnow.
//
// Two tables back the engine's durable state: counters (per-item view
// counts, retained indefinitely) and subscriptions (the normalized channel
// names of the user's subscriptions, replaced wholesale on every harvest).
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// Build connection string based on database type
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS counters (
		item_id TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		name TEXT PRIMARY KEY
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Count returns the stored view count for an item, 0 if absent.
// Thread-safe: acquires read lock.
func (s *Store) Count(itemID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	err := s.db.QueryRow("SELECT count FROM counters WHERE item_id = ?", itemID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Increment adds 1 to an item's view count and returns the new value.
// The upsert runs as a single statement, so the read-modify-write cannot
// interleave with another increment even if callers grow concurrent.
// Thread-safe: acquires write lock.
func (s *Store) Increment(itemID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	err := s.db.QueryRow(`
		INSERT INTO counters (item_id, count) VALUES (?, 1)
		ON CONFLICT(item_id) DO UPDATE SET count = count + 1
		RETURNING count
	`, itemID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetCount overwrites an item's view count. Maintenance use only.
// Thread-safe: acquires write lock.
func (s *Store) SetCount(itemID string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO counters (item_id, count) VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET count = excluded.count
	`, itemID, count)
	return err
}

// PruneCountersBelow deletes counter rows with count < n, returning the
// number of rows removed. Retention is unbounded unless the operator asks.
// Thread-safe: acquires write lock.
func (s *Store) PruneCountersBelow(n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM counters WHERE count < ?", n)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CounterEntry is one row of the counters table.
type CounterEntry struct {
	ItemID string
	Count  int64
}

// TopCounters returns the highest-count entries, for inspection.
// A non-positive limit returns every entry.
// Thread-safe: acquires read lock.
func (s *Store) TopCounters(limit int) ([]CounterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT item_id, count FROM counters
		ORDER BY count DESC, item_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CounterEntry
	for rows.Next() {
		var e CounterEntry
		if err := rows.Scan(&e.ItemID, &e.Count); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CounterStats summarizes the counters table.
type CounterStats struct {
	Entries int64
	Total   int64
	Max     int64
}

// Stats returns aggregate counter statistics.
// Thread-safe: acquires read lock.
func (s *Store) Stats() (CounterStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st CounterStats
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(count), 0), COALESCE(MAX(count), 0)
		FROM counters
	`).Scan(&st.Entries, &st.Total, &st.Max)
	return st, err
}

// Subscriptions returns all persisted subscription names, sorted.
// Thread-safe: acquires read lock.
func (s *Store) Subscriptions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT name FROM subscriptions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReplaceSubscriptions swaps the persisted subscription list for names.
// A harvest result always supersedes the previous set; the swap is
// transactional so a failure leaves the old set intact.
// Thread-safe: acquires write lock.
func (s *Store) ReplaceSubscriptions(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM subscriptions"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO subscriptions (name) VALUES (?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := stmt.Exec(name); err != nil {
			return err
		}
	}

	return tx.Commit()
}
