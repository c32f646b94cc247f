// Package parse turns the human-readable metric strings found on feed
// cards ("1.2M views", "3 days ago", "1:05:30") into numeric values.
//
// Every function is pure and total: malformed input yields a zero value
// (or a false ok), never a panic. Parse failures are the caller's to log.
package parse

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	unitViewsRe = regexp.MustCompile(`([\d][\d,.]*)\s*([kmb])`)
	plainNumRe  = regexp.MustCompile(`\d[\d,.]*`)

	relativeDateRe = regexp.MustCompile(`(?i)^(?:streamed\s+)?(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago$`)

	liveURLRe    = regexp.MustCompile(`/live/([^?/&]+)`)
	timeParamRe  = regexp.MustCompile(`[?&]t=(\d+)`)
	watchParamRe = regexp.MustCompile(`[?&]v=([^&]+)`)
)

// ViewCount parses a view-count string such as "1.2M views", "45,311 views",
// or "987 views" into a number. A k/m/b unit suffix (case-insensitive)
// multiplies by 1e3/1e6/1e9. Returns 0 when no number can be found.
func ViewCount(text string) int64 {
	lower := strings.ToLower(text)

	if m := unitViewsRe.FindStringSubmatch(lower); m != nil {
		num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0
		}
		switch m[2] {
		case "k":
			num *= 1_000
		case "m":
			num *= 1_000_000
		case "b":
			num *= 1_000_000_000
		}
		return int64(num)
	}

	if m := plainNumRe.FindString(lower); m != "" {
		num, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return 0
		}
		return int64(num)
	}

	return 0
}

// RelativeDate parses strings like "3 days ago" or "Streamed 2 hours ago"
// into an absolute time relative to now. Month and year subtraction is
// calendar-aware, not a fixed-length approximation. ok is false for any
// input that does not match the pattern.
func RelativeDate(text string, now time.Time) (t time.Time, ok bool) {
	m := relativeDateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only possible on overflow of the digit run.
		return time.Time{}, false
	}

	switch strings.ToLower(m[2]) {
	case "second":
		return now.Add(-time.Duration(n) * time.Second), true
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute), true
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour), true
	case "day":
		return now.AddDate(0, 0, -n), true
	case "week":
		return now.AddDate(0, 0, -7*n), true
	case "month":
		return now.AddDate(0, -n, 0), true
	case "year":
		return now.AddDate(-n, 0, 0), true
	}
	return time.Time{}, false
}

// Duration parses "H:MM:SS", "M:SS", or "SS" into seconds.
// Returns 0 for empty or malformed input.
func Duration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		if p == "" {
			return 0
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// WatchURL rewrites a live-stream permalink (/live/<id>, optionally with a
// ?t= timestamp) to its canonical watch form. Any other URL is returned
// unchanged.
func WatchURL(raw string) string {
	m := liveURLRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	out := "https://www.youtube.com/watch?v=" + m[1]
	if tm := timeParamRe.FindStringSubmatch(raw); tm != nil {
		out += "&t=" + tm[1] + "s"
	}
	return out
}

// VideoID extracts the v query parameter from a watch URL or href.
// Relative hrefs like "/watch?v=abc123" are accepted. Returns "" when the
// parameter is absent.
func VideoID(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
	}
	// Fallback for hrefs url.Parse rejects.
	if m := watchParamRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}
