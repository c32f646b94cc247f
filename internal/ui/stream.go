package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// VisibleRows filters rows according to the show-hidden toggle.
func VisibleRows(rows []Row, showHidden bool) []Row {
	if showHidden {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}

// RenderStream renders the card list.
// Returns the rendered string for display.
func RenderStream(rows []Row, cursor int, width, height int) string {
	if len(rows) == 0 {
		return HelpStyle.Render("No cards on this page. Press 'n' to navigate.")
	}

	// Reserve 1 line for the status bar.
	availableHeight := height - 1
	if availableHeight < 1 {
		availableHeight = 1
	}

	scrollOffset := 0
	if cursor >= availableHeight {
		scrollOffset = cursor - availableHeight + 1
	}

	var b strings.Builder
	rendered := 0
	for i, row := range rows {
		if i < scrollOffset {
			continue
		}
		if rendered >= availableHeight {
			break
		}
		b.WriteString(renderRowLine(row, i == cursor, width))
		b.WriteString("\n")
		rendered++
	}
	return b.String()
}

// renderRowLine renders a single card line.
func renderRowLine(row Row, selected bool, width int) string {
	channelColWidth := 18
	channel := row.Channel
	if utf8.RuneCountInString(channel) > channelColWidth {
		runes := []rune(channel)
		channel = string(runes[:channelColWidth-1]) + "…"
	}
	pad := channelColWidth - utf8.RuneCountInString(channel)
	if pad < 0 {
		pad = 0
	}
	channelField := ChannelColumn.Render(channel) + strings.Repeat(" ", pad+1)

	// Right side: live badge, seen count, hide reason.
	right := CountColumn.Render(fmt.Sprintf("seen %d", row.Count))
	if row.Live {
		right = LiveBadge.Render("LIVE") + " " + right
	}
	if row.Hidden {
		right += " " + ReasonBadge.Render(row.Reason)
	}
	rightWidth := lipgloss.Width(right)

	titleWidth := width - channelColWidth - rightWidth - 6
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := row.Title
	if utf8.RuneCountInString(title) > titleWidth {
		runes := []rune(title)
		title = string(runes[:titleWidth-3]) + "..."
	}

	var titleStyle lipgloss.Style
	switch {
	case selected:
		titleStyle = SelectedItem
	case row.Hidden:
		titleStyle = HiddenItem
	default:
		titleStyle = NormalItem
	}

	left := channelField + titleStyle.Render(title)
	leftWidth := lipgloss.Width(left)
	gap := width - leftWidth - rightWidth - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderStatusBar renders the bottom status bar with key hints and
// page/subscription context.
func RenderStatusBar(cursor, shown, total, page, subs int, width int, showHidden bool) string {
	position := fmt.Sprintf(" %d/%d  page %d  %d hidden  %d subs ",
		cursor+1, shown, page, total-shown, subs)
	if showHidden {
		position = fmt.Sprintf(" %d/%d  page %d  showing hidden  %d subs ",
			cursor+1, shown, page, subs)
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("n") + StatusBarText.Render(":next page"),
		StatusBarKey.Render("s") + StatusBarText.Render(":scan subs"),
		StatusBarKey.Render("h") + StatusBarText.Render(":hidden"),
		StatusBarKey.Render("d") + StatusBarText.Render(":debug"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	leftWidth := lipgloss.Width(position)
	rightWidth := lipgloss.Width(keyHints)
	padding := width - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := position + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}
