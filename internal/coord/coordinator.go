// Package coord provides background refresh coordination for chyron.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/curation"
	"github.com/abelbrown/chyron/internal/feeds"
	"github.com/abelbrown/chyron/internal/ui"
)

// fetchTimeout is the timeout for each individual feed fetch.
const fetchTimeout = 30 * time.Second

// maxConcurrentFetches limits parallel fetch operations.
const maxConcurrentFetches = 5

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, src feeds.FeedSource) ([]feeds.Headline, error)
}

// sender is the message sink, satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// Coordinator runs refresh cycles: it fetches all sources
// concurrently, curates the results into one new headline set, and
// publishes it to the program as a single message. At most one cycle
// runs at a time; triggers received mid-cycle coalesce into exactly
// one follow-up. Uses context cancellation as the only stop mechanism.
type Coordinator struct {
	fetcher  fetcher
	sources  []feeds.FeedSource // IMMUTABLE: set at construction, never modified
	interval time.Duration
	logger   *log.Logger
	trigger  chan struct{}
	wg       sync.WaitGroup

	mu   sync.Mutex
	opts curation.Options
}

// New creates a Coordinator with the real fetcher.
func New(f *feeds.Fetcher, sources []feeds.FeedSource, cfg *config.Config, logger *log.Logger) *Coordinator {
	return NewWithFetcher(f, sources, cfg, logger)
}

// NewWithFetcher allows injecting a custom fetcher (for testing).
func NewWithFetcher(f fetcher, sources []feeds.FeedSource, cfg *config.Config, logger *log.Logger) *Coordinator {
	sourcesCopy := make([]feeds.FeedSource, len(sources))
	copy(sourcesCopy, sources)

	return &Coordinator{
		fetcher:  f,
		sources:  sourcesCopy,
		interval: cfg.RefreshInterval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		opts:     optionsFrom(cfg),
	}
}

func optionsFrom(cfg *config.Config) curation.Options {
	return curation.Options{
		Sort:       cfg.Sort,
		MaxAge:     cfg.MaxAge,
		MaxPerFeed: cfg.MaxPerFeed,
		MaxTotal:   cfg.MaxTotal,
	}
}

// Start begins background refreshing. Call with a cancellable
// context. Performs an initial cycle immediately, then one per
// interval or trigger. The loop is a single goroutine, so cycles
// never overlap.
func (c *Coordinator) Start(ctx context.Context, program *tea.Program) {
	c.start(ctx, program)
}

func (c *Coordinator) start(ctx context.Context, out sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.cycle(ctx, out)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.cycle(ctx, out)
			case <-c.trigger:
				c.cycle(ctx, out)
			}
		}
	}()
}

// Trigger requests a refresh cycle. Non-blocking: if a request is
// already pending the two collapse into one.
func (c *Coordinator) Trigger() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// Reconfigure applies reloaded curation settings to subsequent
// cycles. The refresh interval is fixed at construction.
func (c *Coordinator) Reconfigure(cfg *config.Config) {
	c.mu.Lock()
	c.opts = optionsFrom(cfg)
	c.mu.Unlock()
}

// Wait blocks until the background goroutine exits. Call after
// canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// cycle fetches every source in parallel, each with its own timeout,
// curates the combined results once, and publishes the new set. A
// failed source contributes an error entry and nothing more; the
// other sources are unaffected.
func (c *Coordinator) cycle(ctx context.Context, out sender) {
	if ctx.Err() != nil {
		return
	}
	if out != nil {
		out.Send(ui.RefreshStarted{})
	}

	results := make([]curation.Result, len(c.sources))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, src := range c.sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = curation.Result{Source: src, Err: ctx.Err()}
				return nil
			}
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			hs, err := c.fetcher.Fetch(fetchCtx, src)
			results[i] = curation.Result{Source: src, Headlines: hs, Err: err}
			if err != nil {
				c.logger.Warn("fetch failed", "url", src.URL, "err", err)
			}
			return nil // never fail the group, errors are per-source
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()
	opts.Now = time.Now()

	set := curation.Curate(results, opts)

	var failures []ui.SourceFailure
	for _, res := range results {
		if res.Err != nil {
			failures = append(failures, ui.SourceFailure{Source: res.Source, Err: res.Err})
		}
	}
	c.logger.Info("refresh complete",
		"sources", len(c.sources), "failed", len(failures), "headlines", len(set))

	if out != nil {
		out.Send(ui.RefreshComplete{Headlines: set, Failures: failures, At: opts.Now})
	}
}
