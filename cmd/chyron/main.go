package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/coord"
	"github.com/abelbrown/chyron/internal/feeds"
	"github.com/abelbrown/chyron/internal/logging"
	"github.com/abelbrown/chyron/internal/ui"
)

// fetchTimeout bounds each feed request, both in --validate mode and
// in the running ticker.
const fetchTimeout = 30 * time.Second

var (
	// Version metadata populated at build time via -ldflags.
	version = "dev"

	// Used for flags.
	configPath     string
	feedsPath      string
	delimiter      string
	speed          int
	sortMode       string
	pauseMode      string
	refreshMinutes int
	maxAgeHours    int
	maxPerFeed     int
	maxTotal       int
	showSource     bool
	statusBar      bool
	clickModifier  string
	rotation       string
	validateFeeds  bool

	rootCmd = &cobra.Command{
		Use:   "chyron",
		Short: "A scrolling news ticker for the terminal",
		Long: `Chyron crawls headlines from your RSS and Atom feeds across the
terminal like a newsroom lower-third. Headlines are clickable, the
crawl pauses under the mouse, and feeds refresh in the background.

Feeds are read from a newsboat-style urls file; options come from a
TOML config file, overridden by these flags.`,
		SilenceUsage: true,
		RunE:         run,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a sample config file and an empty feeds file",
		RunE:  runInit,
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "path to the config file")
	f.StringVar(&feedsPath, "feeds", "", "path to the feeds file (newsboat urls format)")
	f.StringVar(&delimiter, "delimiter", "", "text between headlines")
	f.IntVar(&speed, "speed", 0, "scroll speed in columns per second (1-100)")
	f.StringVar(&sortMode, "sort", "", "headline order: random, by_source, by_date, by_date_asc")
	f.StringVar(&pauseMode, "pause", "", "automatic pause: hover, focus, never")
	f.IntVar(&refreshMinutes, "refresh-minutes", 0, "minutes between feed refreshes")
	f.IntVar(&maxAgeHours, "max-age-hours", 0, "drop headlines older than this many hours")
	f.IntVar(&maxPerFeed, "max-per-feed", 0, "keep at most this many headlines per feed")
	f.IntVar(&maxTotal, "max-total", 0, "keep at most this many headlines overall")
	f.BoolVar(&showSource, "show-source", false, "prefix each headline with its feed name")
	f.BoolVar(&statusBar, "status-bar", false, "show the status bar")
	f.StringVar(&clickModifier, "click-modifier", "", "modifier required to open links: none, ctrl, shift, alt")
	f.StringVar(&rotation, "rotation", "", "headline rotation across refreshes: continuous, fair")
	f.BoolVar(&validateFeeds, "validate", false, "check every feed once, report, and exit")

	rootCmd.AddCommand(initCmd)
	rootCmd.Version = version
}

// overridesFrom maps the flags the user actually set into config
// overrides; untouched flags leave the file values in effect.
func overridesFrom(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	set := cmd.Flags().Changed
	if set("feeds") {
		o.Feeds = &feedsPath
	}
	if set("delimiter") {
		o.Delimiter = &delimiter
	}
	if set("speed") {
		o.Speed = &speed
	}
	if set("sort") {
		o.Sort = &sortMode
	}
	if set("pause") {
		o.Pause = &pauseMode
	}
	if set("refresh-minutes") {
		o.RefreshMinutes = &refreshMinutes
	}
	if set("max-age-hours") {
		o.MaxAgeHours = &maxAgeHours
	}
	if set("max-per-feed") {
		o.MaxPerFeed = &maxPerFeed
	}
	if set("max-total") {
		o.MaxTotal = &maxTotal
	}
	if set("show-source") {
		o.ShowSource = &showSource
	}
	if set("status-bar") {
		o.StatusBar = &statusBar
	}
	if set("click-modifier") {
		o.ClickModifier = &clickModifier
	}
	if set("rotation") {
		o.Rotation = &rotation
	}
	return o
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, overridesFrom(cmd))
	if err != nil {
		return err
	}

	sources, err := feeds.ParseFeedList(cfg.FeedsPath)
	if err != nil {
		return fmt.Errorf("read feeds file: %w (run \"chyron init\" to create one)", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no feeds configured in %s", cfg.FeedsPath)
	}

	fetcher := feeds.NewFetcher(fetchTimeout)

	if validateFeeds {
		return runValidate(cmd, fetcher, sources)
	}

	if err := logging.Init(""); err != nil {
		return err
	}
	defer logging.Close()
	logging.Info("chyron started", "version", version, "feeds", len(sources))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coordinator := coord.New(fetcher, sources, cfg, logging.Logger)
	program := tea.NewProgram(ui.NewApp(cfg, coordinator),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	coordinator.Start(ctx, program)

	_, runErr := program.Run()

	cancel()
	coordinator.Wait()
	logging.Info("chyron shutting down")

	if runErr != nil {
		return fmt.Errorf("run ui: %w", runErr)
	}
	return nil
}

// runValidate checks every feed once, concurrently, and reports
// without starting the ticker. Exits non-zero if any feed fails.
func runValidate(cmd *cobra.Command, fetcher *feeds.Fetcher, sources []feeds.FeedSource) error {
	type outcome struct {
		title string
		count int
		err   error
	}
	outcomes := make([]outcome, len(sources))

	var g errgroup.Group
	g.SetLimit(5)
	for i, src := range sources {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()
			title, count, err := fetcher.Check(ctx, src)
			outcomes[i] = outcome{title: title, count: count, err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	failed := 0
	for i, src := range sources {
		o := outcomes[i]
		if o.err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", src.URL, o.err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s, %d entries)\n", src.URL, o.title, o.count)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d feeds failed", failed, len(sources))
	}
	fmt.Fprintf(out, "all %d feeds ok\n", len(sources))
	return nil
}

// runInit creates the config directory with a commented sample config
// and an empty feeds file, skipping anything that already exists.
func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	out := cmd.OutOrStdout()

	cfgPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(config.Example), 0644); err != nil {
			return fmt.Errorf("write sample config: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", cfgPath)
	} else {
		fmt.Fprintf(out, "kept existing %s\n", cfgPath)
	}

	urlsPath := filepath.Join(dir, "urls")
	if _, err := os.Stat(urlsPath); os.IsNotExist(err) {
		sample := "# One feed URL per line, optionally followed by a tag.\n# https://example.com/rss \"news\"\n"
		if err := os.WriteFile(urlsPath, []byte(sample), 0644); err != nil {
			return fmt.Errorf("write feeds file: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", urlsPath)
	} else {
		fmt.Fprintf(out, "kept existing %s\n", urlsPath)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
