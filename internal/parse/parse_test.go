package parse

import (
	"testing"
	"time"
)

func TestViewCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.2M views", 1_200_000},
		{"45 views", 45},
		{"garbage", 0},
		{"", 0},
		{"3.4K views", 3_400},
		{"2B views", 2_000_000_000},
		{"1,234,567 views", 1_234_567},
		{"987 views", 987},
		{"No views", 0},
		{"12k", 12_000},
		{"1 view", 1},
	}
	for _, tt := range tests {
		if got := ViewCount(tt.in); got != tt.want {
			t.Errorf("ViewCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"3 days ago", now.AddDate(0, 0, -3), true},
		{"1 day ago", now.AddDate(0, 0, -1), true},
		{"45 seconds ago", now.Add(-45 * time.Second), true},
		{"10 minutes ago", now.Add(-10 * time.Minute), true},
		{"2 hours ago", now.Add(-2 * time.Hour), true},
		{"3 weeks ago", now.AddDate(0, 0, -21), true},
		{"Streamed 2 hours ago", now.Add(-2 * time.Hour), true},
		{"streamed 1 week ago", now.AddDate(0, 0, -7), true},
		// Calendar-aware: March 31 minus one month normalizes per AddDate.
		{"1 month ago", now.AddDate(0, -1, 0), true},
		{"2 years ago", now.AddDate(-2, 0, 0), true},
		{"yesterday", time.Time{}, false},
		{"3 fortnights ago", time.Time{}, false},
		{"", time.Time{}, false},
		{"ago", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := RelativeDate(tt.in, now)
		if ok != tt.ok {
			t.Errorf("RelativeDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("RelativeDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1:05:30", 3930},
		{"5:14", 314},
		{"", 0},
		{"42", 42},
		{"0:59", 59},
		{"10:00:00", 36000},
		{"1:2:3:4", 0},
		{"abc", 0},
		{"1:xx", 0},
		{":30", 0},
	}
	for _, tt := range tests {
		if got := Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWatchURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://www.youtube.com/live/abc123",
			"https://www.youtube.com/watch?v=abc123",
		},
		{
			"https://www.youtube.com/live/abc123?t=90",
			"https://www.youtube.com/watch?v=abc123&t=90s",
		},
		{
			"https://www.youtube.com/watch?v=abc123",
			"https://www.youtube.com/watch?v=abc123",
		},
		{"https://example.com/other", "https://example.com/other"},
	}
	for _, tt := range tests {
		if got := WatchURL(tt.in); got != tt.want {
			t.Errorf("WatchURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"/watch?v=abc123", "abc123"},
		{"/watch?v=abc123&t=30s", "abc123"},
		{"https://www.youtube.com/playlist?list=PL123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := VideoID(tt.in); got != tt.want {
			t.Errorf("VideoID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
