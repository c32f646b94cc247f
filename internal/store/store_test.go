package store

import (
	"fmt"
	"testing"
)

func TestOpen(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	// Verify tables exist by querying them
	for _, table := range []string{"counters", "subscriptions"} {
		var name string
		err = st.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not created: %v", table, err)
		}
	}
}

func TestCountAbsent(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	count, err := st.Count("never-seen")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 for absent item, got %d", count)
	}
}

func TestIncrementMonotonic(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	// N increments yield get == N, counts returned in order 1..N
	const n = 25
	for i := 1; i <= n; i++ {
		count, err := st.Increment("vid-1")
		if err != nil {
			t.Fatalf("Increment %d failed: %v", i, err)
		}
		if count != int64(i) {
			t.Errorf("Increment %d returned %d", i, count)
		}
	}

	count, err := st.Count("vid-1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != n {
		t.Errorf("expected count %d, got %d", n, count)
	}
}

func TestIncrementIndependentKeys(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	if _, err := st.Increment("a"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if _, err := st.Increment("a"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if _, err := st.Increment("b"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	a, _ := st.Count("a")
	b, _ := st.Count("b")
	if a != 2 || b != 1 {
		t.Errorf("expected a=2 b=1, got a=%d b=%d", a, b)
	}
}

func TestSetCount(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	if err := st.SetCount("vid-1", 42); err != nil {
		t.Fatalf("SetCount failed: %v", err)
	}
	count, _ := st.Count("vid-1")
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}

	// Overwrite existing
	if err := st.SetCount("vid-1", 7); err != nil {
		t.Fatalf("SetCount failed: %v", err)
	}
	count, _ = st.Count("vid-1")
	if count != 7 {
		t.Errorf("expected 7, got %d", count)
	}
}

func TestPruneCountersBelow(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	for i := 1; i <= 5; i++ {
		if err := st.SetCount(fmt.Sprintf("vid-%d", i), int64(i)); err != nil {
			t.Fatalf("SetCount failed: %v", err)
		}
	}

	removed, err := st.PruneCountersBelow(3)
	if err != nil {
		t.Fatalf("PruneCountersBelow failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("expected 3 entries after prune, got %d", stats.Entries)
	}
}

func TestStats(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	// Empty store
	stats, err := st.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 || stats.Total != 0 || stats.Max != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}

	st.SetCount("a", 3)
	st.SetCount("b", 11)

	stats, err = st.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 2 || stats.Total != 14 || stats.Max != 11 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestTopCounters(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	st.SetCount("low", 1)
	st.SetCount("high", 99)
	st.SetCount("mid", 50)

	top, err := st.TopCounters(2)
	if err != nil {
		t.Fatalf("TopCounters failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].ItemID != "high" || top[1].ItemID != "mid" {
		t.Errorf("unexpected order: %+v", top)
	}
}

func TestSubscriptionsEmpty(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	names, err := st.Subscriptions()
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no subscriptions, got %v", names)
	}
}

func TestReplaceSubscriptions(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	if err := st.ReplaceSubscriptions([]string{"alpha", "beta", "", "beta"}); err != nil {
		t.Fatalf("ReplaceSubscriptions failed: %v", err)
	}

	names, err := st.Subscriptions()
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("unexpected names: %v", names)
	}

	// A new harvest result supersedes the old set entirely
	if err := st.ReplaceSubscriptions([]string{"gamma"}); err != nil {
		t.Fatalf("ReplaceSubscriptions failed: %v", err)
	}
	names, _ = st.Subscriptions()
	if len(names) != 1 || names[0] != "gamma" {
		t.Errorf("expected wholesale replace, got %v", names)
	}
}
