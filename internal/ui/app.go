package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/chyron/internal/config"
	"github.com/abelbrown/chyron/internal/logging"
	"github.com/abelbrown/chyron/internal/ticker"
)

// tickInterval is the animation frame period.
const tickInterval = 50 * time.Millisecond

// maxTickElapsed caps the per-tick advance so a suspended terminal
// does not fast-forward the crawl on resume.
const maxTickElapsed = 500 * time.Millisecond

// speedStep is the speed change per keypress, columns per second.
const speedStep = 2

// Refresher triggers and reconfigures background refreshes. Satisfied
// by *coord.Coordinator; the indirection keeps the UI free of
// coordination details.
type Refresher interface {
	Trigger()
	Reconfigure(cfg *config.Config)
}

// App is the root Bubble Tea model. It owns the scroll engine and
// receives everything else, headlines included, via messages; it
// never performs I/O in Update or View.
type App struct {
	cfg       *config.Config
	crawl     *ticker.Ticker
	refresher Refresher
	openLink  func(url string) tea.Cmd
	spin      spinner.Model

	width  int
	height int
	ready  bool

	lastTick time.Time
	frame    ticker.Frame
	hoverCol int

	refreshing  bool
	lastRefresh time.Time
	failures    int
	notice      string
}

func NewApp(cfg *config.Config, r Refresher) App {
	return App{
		cfg:       cfg,
		crawl:     ticker.New(cfg),
		refresher: r,
		openLink:  openLinkCmd,
		spin:      spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(StatusBarText)),
		hoverCol:  -1,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return a.handleTick(time.Time(msg))

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.frame = a.crawl.Frame(a.width)
		return a, nil

	case tea.FocusMsg:
		a.crawl.SetPause(ticker.PauseFocus, false)
		return a, nil

	case tea.BlurMsg:
		a.crawl.SetPause(ticker.PauseFocus, true)
		// No motion events arrive while unfocused, so a held hover
		// would never clear.
		a.crawl.SetPause(ticker.PauseHover, false)
		a.hoverCol = -1
		return a, nil

	case RefreshStarted:
		a.refreshing = true
		return a, a.spin.Tick

	case spinner.TickMsg:
		if !a.refreshing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case RefreshComplete:
		a.refreshing = false
		a.lastRefresh = msg.At
		a.failures = len(msg.Failures)
		a.crawl.ApplyRefresh(msg.Headlines)
		if a.ready {
			a.frame = a.crawl.Frame(a.width)
		}
		return a, nil

	case ConfigReloaded:
		if msg.Err != nil {
			logging.Error("config reload failed", "err", msg.Err)
			a.notice = "config reload failed"
			return a, nil
		}
		a.cfg = msg.Config
		a.notice = ""
		a.crawl.Configure(msg.Config)
		if a.refresher != nil {
			a.refresher.Reconfigure(msg.Config)
		}
		if a.ready {
			a.frame = a.crawl.Frame(a.width)
		}
		return a, nil

	case LinkOpened:
		if msg.Err != nil {
			logging.Error("open link failed", "url", msg.URL, "err", msg.Err)
			a.notice = "could not open link"
		}
		return a, nil
	}

	return a, nil
}

func (a App) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var elapsed time.Duration
	if !a.lastTick.IsZero() {
		elapsed = now.Sub(a.lastTick)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxTickElapsed {
		elapsed = maxTickElapsed
	}
	a.lastTick = now

	a.crawl.Advance(elapsed)
	if a.ready {
		a.frame = a.crawl.Frame(a.width)
	}
	return a, tickCmd()
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return a, tea.Quit

	case " ":
		a.crawl.ToggleManual()
		return a, nil

	case "+", "=":
		a.crawl.AdjustSpeed(speedStep)
		return a, nil

	case "-", "_":
		a.crawl.AdjustSpeed(-speedStep)
		return a, nil

	case "r":
		if a.refresher != nil {
			a.refresher.Trigger()
		}
		return a, nil

	case "c":
		return a, a.reloadConfig()
	}

	return a, nil
}

// handleMouseMsg tracks hover over the ticker row and dispatches
// clicks through the current frame's span map.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := a.tickerRow()

	switch msg.Action {
	case tea.MouseActionMotion:
		if msg.Y == row {
			a.hoverCol = msg.X
			a.crawl.SetPause(ticker.PauseHover, true)
		} else {
			a.hoverCol = -1
			a.crawl.SetPause(ticker.PauseHover, false)
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != row || !a.modifierHeld(msg) {
			return a, nil
		}
		if link, ok := a.frame.LinkAt(msg.X); ok {
			return a, a.openLink(link)
		}
	}
	return a, nil
}

func (a App) modifierHeld(msg tea.MouseMsg) bool {
	switch a.cfg.ClickModifier {
	case config.ClickCtrl:
		return msg.Ctrl
	case config.ClickShift:
		return msg.Shift
	case config.ClickAlt:
		return msg.Alt
	default:
		return true
	}
}

// reloadConfig re-reads the config file, keeping CLI overrides; the
// result arrives as a ConfigReloaded message.
func (a App) reloadConfig() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		next, err := cfg.Reload()
		return ConfigReloaded{Config: next, Err: err}
	}
}

// tickerRow is the screen row the crawl occupies: vertically centered,
// nudged up when the status bar would collide.
func (a App) tickerRow() int {
	row := a.height / 2
	if a.cfg.StatusBar && row >= a.height-1 {
		row = a.height - 2
	}
	if row < 0 {
		row = 0
	}
	return row
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return ""
	}

	rows := make([]string, a.height)
	row := a.tickerRow()

	if a.crawl.Count() == 0 {
		notice := "no headlines"
		if a.refreshing {
			notice = a.spin.View() + " fetching feeds"
		}
		rows[row] = EmptyNotice.Render(notice)
	} else {
		rows[row] = RenderTickerRow(a.frame, a.hoverCol)
	}

	if a.cfg.StatusBar && a.height > 1 {
		rows[a.height-1] = RenderStatusBar(Status{
			Paused:      a.crawl.Paused(),
			Speed:       a.crawl.Speed(),
			Count:       a.crawl.Count(),
			Refreshing:  a.refreshing,
			LastRefresh: a.lastRefresh,
			Failures:    a.failures,
			Notice:      a.notice,
		}, a.width, a.spin.View())
	}

	return strings.Join(rows, "\n")
}
