package ticker

import (
	"testing"
	"time"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/feeds"
)

func testConfig() *config.Config {
	return &config.Config{
		Delimiter:  " • ",
		Speed:      1,
		Pause:      config.PauseHover,
		ShowSource: false,
		Rotation:   config.RotationContinuous,
	}
}

func newTicker(cfg *config.Config, hs ...feeds.Headline) *Ticker {
	t := New(cfg)
	t.ApplyRefresh(hs)
	return t
}

func TestAdvanceWrapsIntoRange(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "AB"})
	if tk.Len() != 5 {
		t.Fatalf("joined length = %d, want 5", tk.Len())
	}

	for i := 0; i < 100; i++ {
		tk.Advance(700 * time.Millisecond)
		if off := tk.Offset(); off < 0 || off >= float64(tk.Len()) {
			t.Fatalf("offset %f out of [0, %d) after %d ticks", off, tk.Len(), i+1)
		}
	}
}

func TestEmptyStoreIsRenderable(t *testing.T) {
	tk := New(testConfig())
	tk.ApplyRefresh(nil)

	tk.Advance(time.Second)
	if tk.Offset() != 0 {
		t.Errorf("offset = %f with empty store, want 0", tk.Offset())
	}

	f := tk.Frame(80)
	if len(f.Runes) != 0 || len(f.Spans) != 0 {
		t.Errorf("empty store produced non-empty frame: %q, %d spans", string(f.Runes), len(f.Spans))
	}
}

func TestPausedContributesNoAdvance(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "AB"})
	tk.Advance(time.Second)
	before := tk.Offset()

	tk.SetPause(PauseManual, true)
	tk.Advance(time.Second)
	if tk.Offset() != before {
		t.Errorf("offset moved from %f to %f while paused", before, tk.Offset())
	}

	tk.SetPause(PauseManual, false)
	tk.Advance(time.Second)
	if tk.Offset() == before {
		t.Error("offset did not move after unpause")
	}
}

func TestPauseEligibilityByMode(t *testing.T) {
	cases := []struct {
		name   string
		mode   config.PauseMode
		src    PauseSource
		paused bool
	}{
		{"hover mode, hover set", config.PauseHover, PauseHover, true},
		{"hover mode, focus set", config.PauseHover, PauseFocus, false},
		{"focus mode, focus set", config.PauseFocus, PauseFocus, true},
		{"focus mode, hover set", config.PauseFocus, PauseHover, false},
		{"never mode, hover set", config.PauseNever, PauseHover, false},
		{"never mode, focus set", config.PauseNever, PauseFocus, false},
		{"never mode, manual set", config.PauseNever, PauseManual, true},
		{"hover mode, manual set", config.PauseHover, PauseManual, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Pause = tc.mode
			tk := newTicker(cfg, feeds.Headline{Title: "AB"})
			tk.SetPause(tc.src, true)
			if got := tk.Paused(); got != tc.paused {
				t.Errorf("Paused() = %v, want %v", got, tc.paused)
			}
		})
	}
}

func TestToggleManualIsSticky(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "AB"})

	if !tk.ToggleManual() || !tk.Paused() {
		t.Fatal("first toggle should pause")
	}
	// Hover clearing must not release a manual pause.
	tk.SetPause(PauseHover, true)
	tk.SetPause(PauseHover, false)
	if !tk.Paused() {
		t.Error("manual pause lost after hover cycled")
	}
	if tk.ToggleManual() || tk.Paused() {
		t.Error("second toggle should resume")
	}
}

func TestFrameWrapsShortTextAcrossViewport(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "AB", Link: "https://example.com/ab"})
	tk.Advance(3 * time.Second) // speed 1, offset 3

	f := tk.Frame(20)
	if got := string(f.Runes); got != "• AB • AB • AB • AB " {
		t.Errorf("frame runes = %q", got)
	}

	want := []Span{
		{Headline: 0, Start: 2, End: 4, Link: "https://example.com/ab"},
		{Headline: 0, Start: 7, End: 9, Link: "https://example.com/ab"},
		{Headline: 0, Start: 12, End: 14, Link: "https://example.com/ab"},
		{Headline: 0, Start: 17, End: 19, Link: "https://example.com/ab"},
	}
	if len(f.Spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(f.Spans), len(want), f.Spans)
	}
	for i, s := range f.Spans {
		if s != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestLinkAt(t *testing.T) {
	tk := newTicker(testConfig(),
		feeds.Headline{Title: "Linked", Link: "https://example.com/a"},
		feeds.Headline{Title: "Linkless"},
	)

	// "Linked • Linkless • " with offset 0.
	f := tk.Frame(20)

	if link, ok := f.LinkAt(2); !ok || link != "https://example.com/a" {
		t.Errorf("LinkAt(2) = %q, %v", link, ok)
	}
	if _, ok := f.LinkAt(7); ok {
		t.Error("delimiter gap resolved to a link")
	}
	if _, ok := f.LinkAt(10); ok {
		t.Error("linkless headline resolved to a link")
	}
	if _, ok := f.SpanAt(10); !ok {
		t.Error("linkless headline should still have a span for hover")
	}
}

func TestSourcePrefixInsideSpan(t *testing.T) {
	cfg := testConfig()
	cfg.ShowSource = true
	tk := newTicker(cfg, feeds.Headline{Title: "Story", Source: "Wire", Link: "https://example.com/s"})

	// "[Wire] Story • "
	f := tk.Frame(15)
	if got := string(f.Runes); got != "[Wire] Story • " {
		t.Fatalf("frame runes = %q", got)
	}
	if link, ok := f.LinkAt(0); !ok || link != "https://example.com/s" {
		t.Errorf("click on source prefix: LinkAt(0) = %q, %v", link, ok)
	}
	if _, ok := f.SpanAt(12); ok {
		t.Error("delimiter after title should be outside the span")
	}
}

func TestRefreshRewrapsOffset(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "A long headline here"})
	tk.Advance(15 * time.Second)
	if tk.Offset() < 10 {
		t.Fatalf("offset = %f, expected to be deep into the text", tk.Offset())
	}

	tk.ApplyRefresh([]feeds.Headline{{Title: "AB"}})
	if off := tk.Offset(); off < 0 || off >= float64(tk.Len()) {
		t.Errorf("offset %f out of [0, %d) after shrinking refresh", off, tk.Len())
	}
}

func TestSpeedClamped(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "AB"})

	if got := tk.AdjustSpeed(-50); got != MinSpeed {
		t.Errorf("speed = %d after large decrease, want %d", got, MinSpeed)
	}
	if got := tk.AdjustSpeed(500); got != MaxSpeed {
		t.Errorf("speed = %d after large increase, want %d", got, MaxSpeed)
	}
}

func TestSpeedAppliesNextTick(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "ABCDEFGHIJKLMNOP"})
	tk.Advance(time.Second)
	if tk.Offset() != 1 {
		t.Fatalf("offset = %f, want 1", tk.Offset())
	}
	tk.AdjustSpeed(4)
	tk.Advance(time.Second)
	if tk.Offset() != 6 {
		t.Errorf("offset = %f after speed change, want 6", tk.Offset())
	}
}

func TestFairRotationPutsUnshownFirst(t *testing.T) {
	cfg := testConfig()
	cfg.Delimiter = " "
	cfg.Rotation = config.RotationFair
	set := []feeds.Headline{
		{Title: "AAA", Source: "one"},
		{Title: "BBB", Source: "two"},
		{Title: "CCC", Source: "three"},
	}
	tk := newTicker(cfg, set...)

	// "AAA BBB CCC ": the first headline ends at column 3. Speed 1
	// for 4 seconds scrolls it fully past the left edge; the others
	// are still in rotation.
	tk.Advance(4 * time.Second)

	tk.ApplyRefresh(set)
	if got := tk.Headline(0).Title; got != "BBB" {
		t.Errorf("first headline after rotation = %q, want BBB", got)
	}
	if got := tk.Headline(2).Title; got != "AAA" {
		t.Errorf("shown headline should rotate to the back, got %q last", tk.Headline(2).Title)
	}
}

func TestFairRotationKeepsPartiallyShownInPlace(t *testing.T) {
	cfg := testConfig()
	cfg.Delimiter = " "
	cfg.Rotation = config.RotationFair
	set := []feeds.Headline{
		{Title: "AAA", Source: "one"},
		{Title: "BBB", Source: "two"},
	}
	tk := newTicker(cfg, set...)

	// The first headline has been on screen but never scrolled fully
	// past: a narrow frame showed its head, and two seconds at speed 1
	// leaves the offset short of its end at column 3.
	tk.Frame(2)
	tk.Advance(2 * time.Second)

	tk.ApplyRefresh(set)
	if got := tk.Headline(0).Title; got != "AAA" {
		t.Errorf("partially shown headline was demoted: first = %q, want AAA", got)
	}
}

func TestFairRotationResetsWhenAllShown(t *testing.T) {
	cfg := testConfig()
	cfg.Rotation = config.RotationFair
	set := []feeds.Headline{
		{Title: "AAA", Source: "one"},
		{Title: "BBB", Source: "two"},
	}
	tk := newTicker(cfg, set...)

	// One full loop: everything has scrolled past.
	tk.Advance(time.Duration(tk.Len()) * time.Second)

	tk.ApplyRefresh(set)
	if got := tk.Headline(0).Title; got != "AAA" {
		t.Errorf("order changed after full rotation reset, got %q first", got)
	}
}

func TestConfigureRewrapsAndRetunes(t *testing.T) {
	tk := newTicker(testConfig(), feeds.Headline{Title: "Headline"})
	tk.SetPause(PauseHover, true)
	if !tk.Paused() {
		t.Fatal("hover pause should hold under hover mode")
	}

	cfg := testConfig()
	cfg.Pause = config.PauseNever
	cfg.Speed = 40
	tk.Configure(cfg)

	if tk.Paused() {
		t.Error("mode change to never should release the hover pause")
	}
	if tk.Speed() != 40 {
		t.Errorf("speed = %d after reload, want 40", tk.Speed())
	}
}
