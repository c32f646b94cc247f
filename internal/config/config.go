// Package config loads and persists the static filtering configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/winnow/internal/classify"
	"github.com/abelbrown/winnow/internal/logging"
)

// dateLayout is the format for date-window bounds in the config file.
const dateLayout = "2006-01-02"

// Config is the persistent application configuration.
type Config struct {
	// Threshold is the view count above which an item is hidden.
	Threshold int64 `json:"threshold"`

	// MinimumViews hides items below this public view count.
	MinimumViews int64 `json:"minimum_views"`

	// DurationWindow bounds item duration in seconds; nil disables.
	DurationWindow *DurationWindow `json:"duration_window"`

	// DateWindow bounds the publish date ("2006-01-02"); nil disables.
	DateWindow *DateWindow `json:"date_window"`

	FilteredTitleTerms   []string `json:"filtered_title_terms"`
	FilteredChannelTerms []string `json:"filtered_channel_terms"`

	// Observation behavior
	InitialRetries      int `json:"initial_retries"`       // sweep retries on page ready
	NavRetries          int `json:"nav_retries"`           // sweep retries after navigation
	RetryDelayMs        int `json:"retry_delay_ms"`        // delay between sweep retries
	ReconcileIntervalMs int `json:"reconcile_interval_ms"` // hidden-state reassertion period

	// UI preferences
	UI UIConfig `json:"ui"`
}

// DurationWindow bounds item duration; a zero bound is open.
type DurationWindow struct {
	MinSeconds int `json:"min_seconds,omitempty"`
	MaxSeconds int `json:"max_seconds,omitempty"`
}

// DateWindow bounds the publish date; an empty bound is open. MaxAgeDays,
// when positive, hides items older than that many days at evaluation time.
type DateWindow struct {
	After      string `json:"after,omitempty"`
	Before     string `json:"before,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	ItemLimit  int  `json:"item_limit"`
	ShowHidden bool `json:"show_hidden"`
}

// DefaultConfig returns sensible defaults, matching the stock behavior:
// hide after 10 views, no minimum, no windows, no filtered terms.
func DefaultConfig() *Config {
	return &Config{
		Threshold:           classify.DefaultThreshold,
		MinimumViews:        0,
		InitialRetries:      3,
		NavRetries:          8,
		RetryDelayMs:        500,
		ReconcileIntervalMs: 1000,
		UI: UIConfig{
			ItemLimit:  500,
			ShowHidden: false,
		},
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(logging.Dir(), "config.json")
}

// Load reads config from disk. A missing file yields defaults; a corrupt
// file yields defaults with a diagnostic, never an error that would stop
// the engine.
func Load() *Config {
	return loadFrom(ConfigPath())
}

func loadFrom(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Could not read config, using defaults", "path", path, "error", err)
		}
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		logging.Warn("Corrupt config, using defaults", "path", path, "error", err)
		return DefaultConfig()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = classify.DefaultThreshold
	}
	return cfg
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ClassifyOptions converts the config into pipeline options. Unparseable
// date bounds are logged and left open rather than failing startup.
func (c *Config) ClassifyOptions() classify.Options {
	opts := classify.Options{
		Threshold:            c.Threshold,
		MinimumViews:         c.MinimumViews,
		FilteredTitleTerms:   c.FilteredTitleTerms,
		FilteredChannelTerms: c.FilteredChannelTerms,
	}

	if w := c.DurationWindow; w != nil {
		opts.DurationWindow = &classify.DurationWindow{Min: w.MinSeconds, Max: w.MaxSeconds}
	}

	if w := c.DateWindow; w != nil {
		dw := &classify.DateWindow{}
		if w.After != "" {
			t, err := time.Parse(dateLayout, w.After)
			if err != nil {
				logging.Warn("Unparseable date_window.after, bound left open", "value", w.After)
			} else {
				dw.After = t
			}
		}
		if w.Before != "" {
			t, err := time.Parse(dateLayout, w.Before)
			if err != nil {
				logging.Warn("Unparseable date_window.before, bound left open", "value", w.Before)
			} else {
				dw.Before = t
			}
		}
		if w.MaxAgeDays > 0 {
			dw.MaxAge = time.Duration(w.MaxAgeDays) * 24 * time.Hour
		}
		if !dw.After.IsZero() || !dw.Before.IsZero() || dw.MaxAge > 0 {
			opts.DateWindow = dw
		}
	}

	return opts
}

// RetryDelay returns the sweep retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	if c.RetryDelayMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// ReconcileInterval returns the reassertion period as a duration.
func (c *Config) ReconcileInterval() time.Duration {
	if c.ReconcileIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.ReconcileIntervalMs) * time.Millisecond
}
