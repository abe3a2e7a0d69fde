// Package curation builds the displayed headline set from raw
// per-feed fetch results: age filtering, per-feed caps, deduplication,
// sorting, and the global cap. One call per refresh cycle; the result
// replaces the previous set wholesale.
package curation

import (
	"math/rand"
	"sort"
	"time"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/feeds"
)

// Result is the outcome of one feed's fetch attempt. A non-nil Err
// means the source contributes nothing this cycle.
type Result struct {
	Source    feeds.FeedSource
	Headlines []feeds.Headline
	Err       error
}

// Options are the curation knobs, taken from the merged config.
type Options struct {
	Sort       config.SortMode
	MaxAge     time.Duration
	MaxPerFeed int
	MaxTotal   int

	// Now anchors age filtering; zero means time.Now(). Rand drives
	// the random sort; nil uses the global source. Both exist so tests
	// are deterministic.
	Now  time.Time
	Rand *rand.Rand
}

// Curate produces a new curated set from per-source results. Failed
// sources contribute zero headlines; when every source fails the
// result is empty, which is a valid renderable state.
//
// Per-feed truncation always keeps the most recently published
// max_per_feed entries (dateless entries count as oldest), regardless
// of the display sort mode. When the global cap forces further drops,
// entries are selected round-robin across sources in recency order so
// no single feed crowds out the rest, then the selection is ordered by
// the sort mode.
func Curate(results []Result, opts Options) []feeds.Headline {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-opts.MaxAge)

	// Per-source: age filter, then cap by recency.
	perSource := make([][]feeds.Headline, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		kept := make([]feeds.Headline, 0, len(res.Headlines))
		for _, h := range res.Headlines {
			if !h.Published.IsZero() && h.Published.Before(cutoff) {
				continue
			}
			kept = append(kept, h)
		}
		sortByRecency(kept)
		if opts.MaxPerFeed > 0 && len(kept) > opts.MaxPerFeed {
			kept = kept[:opts.MaxPerFeed]
		}
		if len(kept) > 0 {
			perSource = append(perSource, kept)
		}
	}

	// Merge with dedup, first occurrence wins. The per-source cap is
	// re-applied by source name in case two feeds share one.
	seen := make(map[string]bool)
	counts := make(map[string]int)
	merged := make([][]feeds.Headline, 0, len(perSource))
	for _, group := range perSource {
		kept := group[:0:0]
		for _, h := range group {
			key := h.Key()
			if seen[key] {
				continue
			}
			if opts.MaxPerFeed > 0 && counts[h.Source] >= opts.MaxPerFeed {
				continue
			}
			seen[key] = true
			counts[h.Source]++
			kept = append(kept, h)
		}
		if len(kept) > 0 {
			merged = append(merged, kept)
		}
	}

	selected := selectFair(merged, opts.MaxTotal)
	sortHeadlines(selected, opts.Sort, opts.Rand)
	return selected
}

// selectFair picks up to maxTotal headlines round-robin across
// sources. Sources are visited newest-first and each source's entries
// are already in recency order, so the k-th pass takes every source's
// k-th freshest headline.
func selectFair(groups [][]feeds.Headline, maxTotal int) []feeds.Headline {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if maxTotal <= 0 || maxTotal > total {
		maxTotal = total
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return publishedAfter(groups[i][0].Published, groups[j][0].Published)
	})

	selected := make([]feeds.Headline, 0, maxTotal)
	for depth := 0; len(selected) < maxTotal; depth++ {
		took := false
		for _, g := range groups {
			if depth >= len(g) {
				continue
			}
			selected = append(selected, g[depth])
			took = true
			if len(selected) == maxTotal {
				break
			}
		}
		if !took {
			break
		}
	}
	return selected
}

func sortHeadlines(hs []feeds.Headline, mode config.SortMode, r *rand.Rand) {
	switch mode {
	case config.SortRandom:
		shuffle := rand.Shuffle
		if r != nil {
			shuffle = r.Shuffle
		}
		shuffle(len(hs), func(i, j int) {
			hs[i], hs[j] = hs[j], hs[i]
		})
	case config.SortBySource:
		sort.SliceStable(hs, func(i, j int) bool {
			return hs[i].Source < hs[j].Source
		})
	case config.SortByDateAsc:
		sort.SliceStable(hs, func(i, j int) bool {
			return publishedBefore(hs[i].Published, hs[j].Published)
		})
	default: // by_date, newest first
		sort.SliceStable(hs, func(i, j int) bool {
			return publishedAfter(hs[i].Published, hs[j].Published)
		})
	}
}

// sortByRecency orders newest first with dateless entries last.
func sortByRecency(hs []feeds.Headline) {
	sort.SliceStable(hs, func(i, j int) bool {
		return publishedAfter(hs[i].Published, hs[j].Published)
	})
}

// publishedAfter ranks a before b under newest-first ordering; zero
// timestamps rank last.
func publishedAfter(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.After(b)
}

// publishedBefore ranks a before b under oldest-first ordering; zero
// timestamps still rank last.
func publishedBefore(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.Before(b)
}
