// Package feeds provides the headline model, feed-list parsing, and
// the HTTP fetcher that turns RSS/Atom documents into headlines.
package feeds

import "time"

// Headline is a single curated feed entry. Immutable once curated.
type Headline struct {
	Title     string
	Link      string    // may be empty; linkless headlines are not clickable
	Source    string    // feed title, falling back to the feed URL
	Published time.Time // zero when the feed carried no usable date
	Tag       string    // optional tag from the feeds file, informational only
}

// Key is the deduplication identity: source plus link, or source plus
// title when the entry has no link.
func (h Headline) Key() string {
	if h.Link != "" {
		return h.Source + "\x00" + h.Link
	}
	return h.Source + "\x00" + h.Title
}

// FeedSource is one configured feed.
type FeedSource struct {
	URL string
	Tag string
}
