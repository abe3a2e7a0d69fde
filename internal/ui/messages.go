// Package ui provides the Bubble Tea TUI for chyron.
package ui

import (
	"time"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/feeds"
)

// TickMsg drives one animation step; it carries the time the tick
// fired so the scroll advance is frame-rate independent.
type TickMsg time.Time

// RefreshStarted is sent when a refresh cycle begins fetching.
type RefreshStarted struct{}

// RefreshComplete is sent when a refresh cycle finishes. Headlines is
// the complete new curated set, swapped in wholesale; Failures lists
// the sources that contributed nothing this cycle.
type RefreshComplete struct {
	Headlines []feeds.Headline
	Failures  []SourceFailure
	At        time.Time
}

// SourceFailure is one feed's fetch or parse error within a cycle.
type SourceFailure struct {
	Source feeds.FeedSource
	Err    error
}

// ConfigReloaded is sent after a config reload attempt. On error the
// previous config stays in effect.
type ConfigReloaded struct {
	Config *config.Config
	Err    error
}

// LinkOpened reports the outcome of handing a clicked link to the
// system browser.
type LinkOpened struct {
	URL string
	Err error
}
