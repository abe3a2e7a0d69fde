// Package ticker is the scroll engine: it owns the looping joined
// headline text, advances a fractional scroll offset over wall-clock
// time, and derives per-frame visible slices with a span map for
// hover and click resolution. It performs no I/O and never blocks;
// refreshes swap the headline set in wholesale.
package ticker

import (
	"math"
	"time"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/feeds"
)

// PauseSource is one reason the ticker is not advancing. Sources are
// independent; the ticker is paused while any eligible source is set.
type PauseSource uint8

const (
	PauseManual PauseSource = 1 << iota
	PauseHover
	PauseFocus
)

const (
	// MinSpeed and MaxSpeed bound the scroll speed in columns per
	// second.
	MinSpeed = 1
	MaxSpeed = 100
)

// Span is one headline's visible column range within a frame,
// half-open [Start, End). A headline may appear more than once when
// the joined text is shorter than the viewport.
type Span struct {
	Headline int
	Start    int
	End      int
	Link     string
}

// Frame is one rendered tick: the visible runes and the span map that
// locates each headline within them. Frames are derived and discarded
// every tick; only the state they were derived from persists.
type Frame struct {
	Runes []rune
	Spans []Span
}

// SpanAt returns the span covering the given column, if any. Columns
// inside delimiter gaps hit nothing.
func (f Frame) SpanAt(col int) (Span, bool) {
	for _, s := range f.Spans {
		if col >= s.Start && col < s.End {
			return s, true
		}
	}
	return Span{}, false
}

// LinkAt resolves the link under the given column. A headline without
// a link resolves to nothing even when clicked directly.
func (f Frame) LinkAt(col int) (string, bool) {
	s, ok := f.SpanAt(col)
	if !ok || s.Link == "" {
		return "", false
	}
	return s.Link, true
}

// segment is one headline's rune range within the joined text,
// excluding the trailing delimiter.
type segment struct {
	start    int
	end      int
	headline int
	link     string
}

// Ticker holds the scroll state. It is not safe for concurrent use;
// the event loop is its only caller.
type Ticker struct {
	delimiter  []rune
	showSource bool
	pauseMode  config.PauseMode
	rotation   config.RotationMode

	headlines []feeds.Headline
	runes     []rune
	segments  []segment
	total     int

	offset float64
	speed  int
	pauses PauseSource

	// Keys of headlines that have scrolled fully past the left edge,
	// for fair rotation across refreshes.
	shown map[string]bool
}

func New(cfg *config.Config) *Ticker {
	return &Ticker{
		delimiter:  []rune(cfg.Delimiter),
		showSource: cfg.ShowSource,
		pauseMode:  cfg.Pause,
		rotation:   cfg.Rotation,
		speed:      clampSpeed(cfg.Speed),
		shown:      make(map[string]bool),
	}
}

// Configure applies a reloaded config to the live ticker. The offset
// is re-wrapped because a delimiter or prefix change alters the total
// length.
func (t *Ticker) Configure(cfg *config.Config) {
	t.delimiter = []rune(cfg.Delimiter)
	t.showSource = cfg.ShowSource
	t.pauseMode = cfg.Pause
	t.rotation = cfg.Rotation
	t.speed = clampSpeed(cfg.Speed)
	t.rebuild()
}

// Advance moves the offset by speed * elapsed, wrapped into
// [0, total). Elapsed time still passes while paused but contributes
// nothing; with an empty store the offset stays pinned at zero.
func (t *Ticker) Advance(elapsed time.Duration) {
	if t.total == 0 {
		t.offset = 0
		return
	}
	if t.Paused() {
		return
	}
	delta := float64(t.speed) * elapsed.Seconds()
	if t.rotation == config.RotationFair {
		t.markScrolledPast(t.offset, delta)
	}
	t.offset = wrap(t.offset+delta, float64(t.total))
}

// markScrolledPast records headlines whose last column crossed the
// left edge during this advance. A headline only partially seen does
// not count as shown; it keeps its place in the next rotation.
func (t *Ticker) markScrolledPast(from, delta float64) {
	if delta <= 0 {
		return
	}
	total := float64(t.total)
	if delta >= total {
		for _, h := range t.headlines {
			t.shown[h.Key()] = true
		}
		return
	}
	to := from + delta
	for _, seg := range t.segments {
		end := float64(seg.end)
		if (end > from && end <= to) || (end+total > from && end+total <= to) {
			t.shown[t.headlines[seg.headline].Key()] = true
		}
	}
}

// ApplyRefresh swaps in a new curated set. The offset is preserved
// but re-wrapped against the new total so a shorter set cannot leave
// it out of range. Under fair rotation, headlines not yet shown move
// to the front of the loop.
func (t *Ticker) ApplyRefresh(set []feeds.Headline) {
	if t.rotation == config.RotationFair {
		set = t.rotateUnshownFirst(set)
	}
	t.headlines = set
	t.rebuild()
}

func (t *Ticker) rebuild() {
	t.runes = t.runes[:0]
	t.segments = t.segments[:0]
	for i, h := range t.headlines {
		start := len(t.runes)
		if t.showSource && h.Source != "" {
			t.runes = append(t.runes, []rune("["+h.Source+"] ")...)
		}
		t.runes = append(t.runes, []rune(h.Title)...)
		t.segments = append(t.segments, segment{
			start:    start,
			end:      len(t.runes),
			headline: i,
			link:     h.Link,
		})
		t.runes = append(t.runes, t.delimiter...)
	}
	t.total = len(t.runes)
	if t.total == 0 {
		t.offset = 0
	} else {
		t.offset = wrap(t.offset, float64(t.total))
	}
}

// rotateUnshownFirst reorders a refreshed set so headlines that have
// not yet scrolled fully past come first, keeping relative order
// within each half. Once every headline in the set has been shown the
// slate is wiped and rotation starts over.
func (t *Ticker) rotateUnshownFirst(set []feeds.Headline) []feeds.Headline {
	live := make(map[string]bool, len(set))
	for _, h := range set {
		live[h.Key()] = true
	}
	for key := range t.shown {
		if !live[key] {
			delete(t.shown, key)
		}
	}

	allShown := true
	for _, h := range set {
		if !t.shown[h.Key()] {
			allShown = false
			break
		}
	}
	if allShown {
		t.shown = make(map[string]bool)
		return set
	}

	ordered := make([]feeds.Headline, 0, len(set))
	for _, h := range set {
		if !t.shown[h.Key()] {
			ordered = append(ordered, h)
		}
	}
	for _, h := range set {
		if t.shown[h.Key()] {
			ordered = append(ordered, h)
		}
	}
	return ordered
}

// Frame derives the visible slice and span map for the given viewport
// width. The fractional offset rounds to the nearest column. When the
// joined text is shorter than the viewport the loop repeats within a
// single frame, and each occurrence gets its own span.
func (t *Ticker) Frame(width int) Frame {
	if t.total == 0 || width <= 0 {
		return Frame{}
	}
	base := int(t.offset+0.5) % t.total

	runes := make([]rune, width)
	for i := range runes {
		runes[i] = t.runes[(base+i)%t.total]
	}

	var spans []Span
	for k := 0; k*t.total < base+width; k++ {
		for _, seg := range t.segments {
			start := k*t.total + seg.start - base
			end := k*t.total + seg.end - base
			if end <= 0 || start >= width {
				continue
			}
			if start < 0 {
				start = 0
			}
			if end > width {
				end = width
			}
			spans = append(spans, Span{
				Headline: seg.headline,
				Start:    start,
				End:      end,
				Link:     seg.link,
			})
		}
	}
	return Frame{Runes: runes, Spans: spans}
}

// SetPause sets or clears one pause source. Eligibility by pause mode
// is evaluated in Paused, not here, so a mode change takes effect
// without replaying signals.
func (t *Ticker) SetPause(src PauseSource, on bool) {
	if on {
		t.pauses |= src
	} else {
		t.pauses &^= src
	}
}

// ToggleManual flips the sticky manual pause and reports whether it
// is now set.
func (t *Ticker) ToggleManual() bool {
	t.pauses ^= PauseManual
	return t.pauses&PauseManual != 0
}

// Paused reports the effective pause state: manual always counts,
// hover only under pause mode "hover", focus only under "focus".
// Mode "never" leaves manual as the sole source.
func (t *Ticker) Paused() bool {
	mask := PauseManual
	switch t.pauseMode {
	case config.PauseHover:
		mask |= PauseHover
	case config.PauseFocus:
		mask |= PauseFocus
	}
	return t.pauses&mask != 0
}

// AdjustSpeed shifts the speed by delta columns per second, clamped.
// The new speed applies from the next Advance.
func (t *Ticker) AdjustSpeed(delta int) int {
	t.speed = clampSpeed(t.speed + delta)
	return t.speed
}

func (t *Ticker) Speed() int { return t.speed }

func (t *Ticker) Offset() float64 { return t.offset }

// Len reports the rune length of the joined looping text.
func (t *Ticker) Len() int { return t.total }

// Count reports the number of headlines in the current set.
func (t *Ticker) Count() int { return len(t.headlines) }

func (t *Ticker) Headline(i int) feeds.Headline { return t.headlines[i] }

func clampSpeed(s int) int {
	if s < MinSpeed {
		return MinSpeed
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

func wrap(x, total float64) float64 {
	m := math.Mod(x, total)
	if m < 0 {
		m += total
	}
	return m
}
