package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadMissingYieldsDefaults(t *testing.T) {
	cfg := loadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.Threshold != 10 {
		t.Errorf("default threshold = %d, want 10", cfg.Threshold)
	}
	if cfg.NavRetries != 8 || cfg.InitialRetries != 3 {
		t.Errorf("unexpected retry defaults: %+v", cfg)
	}
}

func TestLoadCorruptYieldsDefaults(t *testing.T) {
	path := writeTemp(t, "{not json")
	cfg := loadFrom(path)
	if cfg.Threshold != 10 {
		t.Errorf("corrupt config did not fall back to defaults: %+v", cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeTemp(t, `{"threshold": 3, "filtered_title_terms": ["crypto"]}`)
	cfg := loadFrom(path)
	if cfg.Threshold != 3 {
		t.Errorf("threshold = %d, want 3", cfg.Threshold)
	}
	if len(cfg.FilteredTitleTerms) != 1 {
		t.Errorf("terms not loaded: %v", cfg.FilteredTitleTerms)
	}
	if cfg.RetryDelayMs != 500 {
		t.Errorf("unset field lost its default: %d", cfg.RetryDelayMs)
	}
}

func TestLoadZeroThresholdRestored(t *testing.T) {
	path := writeTemp(t, `{"threshold": 0}`)
	cfg := loadFrom(path)
	if cfg.Threshold != 10 {
		t.Errorf("zero threshold should restore default, got %d", cfg.Threshold)
	}
}

func TestClassifyOptionsWindows(t *testing.T) {
	path := writeTemp(t, `{
		"duration_window": {"min_seconds": 60, "max_seconds": 3600},
		"date_window": {"after": "2024-01-01", "before": "2024-12-31"}
	}`)
	cfg := loadFrom(path)
	opts := cfg.ClassifyOptions()

	if opts.DurationWindow == nil || opts.DurationWindow.Min != 60 || opts.DurationWindow.Max != 3600 {
		t.Errorf("duration window not bridged: %+v", opts.DurationWindow)
	}
	if opts.DateWindow == nil || opts.DateWindow.After.IsZero() || opts.DateWindow.Before.IsZero() {
		t.Fatalf("date window not bridged: %+v", opts.DateWindow)
	}
	if opts.DateWindow.After.Year() != 2024 {
		t.Errorf("after bound parsed wrong: %v", opts.DateWindow.After)
	}
}

func TestClassifyOptionsMaxAgeDays(t *testing.T) {
	path := writeTemp(t, `{"date_window": {"max_age_days": 90}}`)
	cfg := loadFrom(path)
	opts := cfg.ClassifyOptions()

	if opts.DateWindow == nil {
		t.Fatal("max_age_days alone must produce a date window")
	}
	if want := 90 * 24 * time.Hour; opts.DateWindow.MaxAge != want {
		t.Errorf("MaxAge = %v, want %v", opts.DateWindow.MaxAge, want)
	}
	if !opts.DateWindow.After.IsZero() || !opts.DateWindow.Before.IsZero() {
		t.Errorf("absolute bounds must stay open: %+v", opts.DateWindow)
	}
}

func TestClassifyOptionsBadDateLeftOpen(t *testing.T) {
	path := writeTemp(t, `{"date_window": {"after": "not-a-date"}}`)
	cfg := loadFrom(path)
	opts := cfg.ClassifyOptions()
	if opts.DateWindow != nil {
		t.Errorf("window with only an unparseable bound should be dropped: %+v", opts.DateWindow)
	}
}
