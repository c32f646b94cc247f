package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/winnow/internal/diag"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing classification stats and
// recent events. Pure function with no side effects. Returns empty string
// if ring is nil.
func debugOverlay(ring *diag.Ring, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	// --- Stats section (keyed lookups, not map iteration) ---
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session Stats"))
	lines = append(lines, fmt.Sprintf("  Decisions:  %d made, %d settled skips",
		stats[diag.KindDecision], stats[diag.KindSkip]))
	lines = append(lines, fmt.Sprintf("  Sweeps:     %d started, %d complete, %d retried, %d stale",
		stats[diag.KindSweepStart], stats[diag.KindSweepComplete],
		stats[diag.KindSweepRetry], stats[diag.KindSweepStale]))
	lines = append(lines, fmt.Sprintf("  Navigation: %d starts, %d finishes",
		stats[diag.KindNavStart], stats[diag.KindNavFinish]))
	lines = append(lines, fmt.Sprintf("  Errors:     %d parse, %d store",
		stats[diag.KindParseError], stats[diag.KindStoreError]))
	lines = append(lines, fmt.Sprintf("  Reasserts:  %d", stats[diag.KindReassert]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	// --- Recent events section ---
	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		age := time.Since(e.Time)
		ageStr := formatAge(age)

		line := fmt.Sprintf("  %6s  %-20s", ageStr, string(e.Kind))
		if e.Reason != "" {
			line += "  " + truncateRunes(e.Reason, 24)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		if e.Item != "" {
			itemDisplay := e.Item
			if len(itemDisplay) > 8 {
				itemDisplay = itemDisplay[:8]
			}
			line += fmt.Sprintf("  item:%s", itemDisplay)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	content := strings.Join(lines, "\n")
	return DebugPanel.Width(panelWidth).Render(content)
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
