package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/abelbrown/chyron/internal/ticker"
)

// RenderTickerRow renders one frame of the crawl. Linked spans are
// underlined and wrapped in OSC 8 hyperlinks so capable terminals
// make them natively clickable; the span under hoverCol gets the
// hover style. hoverCol < 0 means the mouse is elsewhere.
func RenderTickerRow(f ticker.Frame, hoverCol int) string {
	if len(f.Runes) == 0 {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, s := range f.Spans {
		if s.Start > col {
			b.WriteString(DelimiterText.Render(string(f.Runes[col:s.Start])))
		}
		text := string(f.Runes[s.Start:s.End])
		style := HeadlineText
		if s.Link != "" {
			style = LinkedHeadline
		}
		if hoverCol >= s.Start && hoverCol < s.End {
			style = HoveredHeadline
		}
		rendered := style.Render(text)
		if s.Link != "" {
			rendered = termenv.Hyperlink(s.Link, rendered)
		}
		b.WriteString(rendered)
		col = s.End
	}
	if col < len(f.Runes) {
		b.WriteString(DelimiterText.Render(string(f.Runes[col:])))
	}
	return b.String()
}

// Status carries everything the status bar displays.
type Status struct {
	Paused      bool
	Speed       int
	Count       int
	Refreshing  bool
	LastRefresh time.Time
	Failures    int
	Notice      string
}

// RenderStatusBar renders the one-line status bar. spin is the
// current spinner glyph, shown only while a refresh is in flight.
func RenderStatusBar(s Status, width int, spin string) string {
	state := "▶"
	if s.Paused {
		state = "⏸"
	}
	left := StatusBarKey.Render(state) +
		StatusBarText.Render(fmt.Sprintf(" %d headlines  speed %d", s.Count, s.Speed))
	if s.Notice != "" {
		left += "  " + StatusBarError.Render(s.Notice)
	}

	var right string
	switch {
	case s.Refreshing:
		right = spin + StatusBarText.Render(" refreshing")
	case !s.LastRefresh.IsZero():
		right = StatusBarText.Render("updated " + s.LastRefresh.Format("15:04"))
	}
	if s.Failures > 0 {
		right += " " + StatusBarError.Render(fmt.Sprintf("%d failed", s.Failures))
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	// Key help goes in the middle when there is room for it.
	hints := keyHint("space", "pause") + "  " + keyHint("r", "refresh") + "  " + keyHint("q", "quit")
	if w := lipgloss.Width(hints); gap >= w+2 {
		lead := (gap - w) / 2
		return StatusBar.Width(width).Render(left +
			strings.Repeat(" ", lead) + hints +
			strings.Repeat(" ", gap-w-lead) + right)
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func keyHint(key, action string) string {
	return StatusBarKey.Render(key) + StatusBarText.Render(" "+action)
}
