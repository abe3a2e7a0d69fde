package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorHeadline  = lipgloss.Color("255") // White
	colorDelimiter = lipgloss.Color("240") // Darker gray
	colorSource    = lipgloss.Color("62")  // Purple
	colorHover     = lipgloss.Color("212") // Pink
	colorMuted     = lipgloss.Color("241") // Gray
	colorError     = lipgloss.Color("203") // Red
)

// HeadlineText style for headline titles in the crawl.
var HeadlineText = lipgloss.NewStyle().
	Foreground(colorHeadline)

// LinkedHeadline style for headlines that carry a link.
var LinkedHeadline = lipgloss.NewStyle().
	Foreground(colorHeadline).
	Underline(true)

// HoveredHeadline style for the headline under the mouse cursor.
var HoveredHeadline = lipgloss.NewStyle().
	Foreground(colorHover).
	Underline(true).
	Bold(true)

// DelimiterText style for the gaps between headlines.
var DelimiterText = lipgloss.NewStyle().
	Foreground(colorDelimiter)

// EmptyNotice style for the placeholder shown with no headlines.
var EmptyNotice = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHover).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBarError style for the failed-source count.
var StatusBarError = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)
