package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// userAgent identifies chyron to feed hosts.
const userAgent = "chyron/0.1 (+https://github.com/abelbrown/chyron)"

// Fetcher retrieves and parses feeds. A single shared rate limiter
// keeps refresh storms polite to feed hosts; the per-request timeout
// is enforced by the caller's context.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher. The timeout bounds the whole HTTP
// exchange in addition to any context deadline.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
}

// Fetch retrieves one feed and converts its entries to raw headlines.
// Age filtering and caps are curation's job; every entry with a
// non-empty title is returned. The headline source name is the feed's
// own title, falling back to the URL.
func (f *Fetcher) Fetch(ctx context.Context, src FeedSource) ([]Headline, error) {
	feed, err := f.get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = src.URL
	}

	headlines := make([]Headline, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		var published time.Time
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		headlines = append(headlines, Headline{
			Title:     title,
			Link:      entry.Link,
			Source:    source,
			Published: published,
			Tag:       src.Tag,
		})
	}

	return headlines, nil
}

// Check fetches a feed and reports its title and entry count, for the
// --validate path.
func (f *Fetcher) Check(ctx context.Context, src FeedSource) (string, int, error) {
	feed, err := f.get(ctx, src.URL)
	if err != nil {
		return "", 0, err
	}

	title := strings.TrimSpace(feed.Title)
	if title == "" {
		title = "Untitled"
	}
	return title, len(feed.Items), nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*gofeed.Feed, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}
