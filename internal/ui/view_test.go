package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/chyron/internal/ticker"
)

func TestRenderTickerRowEmitsHyperlinks(t *testing.T) {
	f := ticker.Frame{
		Runes: []rune("AB • CD • "),
		Spans: []ticker.Span{
			{Headline: 0, Start: 0, End: 2, Link: "https://example.com/ab"},
			{Headline: 1, Start: 5, End: 7},
		},
	}

	out := RenderTickerRow(f, -1)
	if !strings.Contains(out, "AB") || !strings.Contains(out, "CD") {
		t.Fatalf("render lost headline text: %q", out)
	}
	if !strings.Contains(out, "\x1b]8;;https://example.com/ab") {
		t.Error("linked span missing OSC 8 hyperlink")
	}
	if strings.Contains(out, "\x1b]8;;h") && strings.Count(out, "https://") != 1 {
		t.Error("linkless span should not be hyperlinked")
	}
}

func TestRenderTickerRowEmptyFrame(t *testing.T) {
	if out := RenderTickerRow(ticker.Frame{}, -1); out != "" {
		t.Errorf("empty frame rendered %q", out)
	}
}

func TestRenderStatusBar(t *testing.T) {
	out := RenderStatusBar(Status{
		Paused:      true,
		Speed:       8,
		Count:       12,
		LastRefresh: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
		Failures:    2,
	}, 60, "")

	for _, want := range []string{"⏸", "12 headlines", "speed 8", "09:30", "2 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q: %q", want, out)
		}
	}
}
