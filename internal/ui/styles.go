package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorWarn      = lipgloss.Color("208") // Orange
	colorLive      = lipgloss.Color("196") // Red
)

// SelectedItem style for the currently highlighted card.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for visible cards.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// HiddenItem style for cards the classifier suppressed.
var HiddenItem = lipgloss.NewStyle().
	Foreground(colorMuted).
	Strikethrough(true).
	Padding(0, 1)

// ReasonBadge style for the hide-reason marker.
var ReasonBadge = lipgloss.NewStyle().
	Foreground(colorWarn).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// LiveBadge style for live cards.
var LiveBadge = lipgloss.NewStyle().
	Foreground(colorLive).
	Bold(true)

// CountColumn style for the view-counter column.
var CountColumn = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ChannelColumn style for channel names.
var ChannelColumn = lipgloss.NewStyle().
	Foreground(colorPrimary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugPanel style for the diagnostics overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
