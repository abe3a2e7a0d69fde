// Package config loads the chyron configuration: a TOML file merged
// under CLI overrides, with CLI taking precedence over the file and
// the file over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// SortMode controls the display order of curated headlines.
type SortMode string

const (
	SortRandom    SortMode = "random"
	SortBySource  SortMode = "by_source"
	SortByDate    SortMode = "by_date"
	SortByDateAsc SortMode = "by_date_asc"
)

// PauseMode selects which automatic pause signal is honored.
type PauseMode string

const (
	PauseHover PauseMode = "hover"
	PauseFocus PauseMode = "focus"
	PauseNever PauseMode = "never"
)

// ClickModifier is the key that must be held for a mouse click to open
// a headline link.
type ClickModifier string

const (
	ClickNone  ClickModifier = "none"
	ClickCtrl  ClickModifier = "ctrl"
	ClickShift ClickModifier = "shift"
	ClickAlt   ClickModifier = "alt"
)

// RotationMode controls whether headlines not yet fully scrolled past
// are prioritized after a refresh.
type RotationMode string

const (
	RotationContinuous RotationMode = "continuous"
	RotationFair       RotationMode = "fair"
)

// FileConfig mirrors the TOML config file. All fields are optional;
// nil means "not set" so the merge can fall through to defaults.
type FileConfig struct {
	Feeds          *string `toml:"feeds"`
	Delimiter      *string `toml:"delimiter"`
	Speed          *int    `toml:"speed"`
	Sort           *string `toml:"sort"`
	Pause          *string `toml:"pause"`
	RefreshMinutes *int    `toml:"refresh_minutes"`
	MaxAgeHours    *int    `toml:"max_age_hours"`
	MaxPerFeed     *int    `toml:"max_per_feed"`
	MaxTotal       *int    `toml:"max_total"`
	ShowSource     *bool   `toml:"show_source"`
	StatusBar      *bool   `toml:"status_bar"`
	ClickModifier  *string `toml:"click_modifier"`
	Rotation       *string `toml:"rotation"`
}

// Overrides carries CLI flag values. Nil fields were not given on the
// command line and do not override the file.
type Overrides struct {
	Feeds          *string
	Delimiter      *string
	Speed          *int
	Sort           *string
	Pause          *string
	RefreshMinutes *int
	MaxAgeHours    *int
	MaxPerFeed     *int
	MaxTotal       *int
	ShowSource     *bool
	StatusBar      *bool
	ClickModifier  *string
	Rotation       *string
}

// Config is the fully merged, validated configuration.
type Config struct {
	FeedsPath       string
	Delimiter       string        `validate:"min=1"`
	Speed           int           `validate:"gte=1,lte=100"`
	Sort            SortMode      `validate:"oneof=random by_source by_date by_date_asc"`
	Pause           PauseMode     `validate:"oneof=hover focus never"`
	RefreshInterval time.Duration `validate:"gt=0"`
	MaxAge          time.Duration `validate:"gt=0"`
	MaxPerFeed      int           `validate:"gte=1"`
	MaxTotal        int           `validate:"gte=1"`
	ShowSource      bool
	StatusBar       bool
	ClickModifier   ClickModifier `validate:"oneof=none ctrl shift alt"`
	Rotation        RotationMode  `validate:"oneof=continuous fair"`

	// Retained so Reload can redo the merge with the same inputs.
	configPath string
	overrides  Overrides
}

var validate = validator.New()

// Load reads the config file at path (or the default location if path
// is empty), merges it under the given CLI overrides, and validates
// the result. A missing config file is not an error; missing feeds
// files are reported by the caller, not here.
func Load(path string, o Overrides) (*Config, error) {
	if path == "" {
		path = filepath.Join(Dir(), "config.toml")
	}

	var fc FileConfig
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Delimiter:       pick(o.Delimiter, fc.Delimiter, " ••• "),
		Speed:           pick(o.Speed, fc.Speed, 8),
		Sort:            SortMode(pick(o.Sort, fc.Sort, string(SortByDate))),
		Pause:           PauseMode(pick(o.Pause, fc.Pause, string(PauseHover))),
		RefreshInterval: time.Duration(pick(o.RefreshMinutes, fc.RefreshMinutes, 5)) * time.Minute,
		MaxAge:          time.Duration(pick(o.MaxAgeHours, fc.MaxAgeHours, 24)) * time.Hour,
		MaxPerFeed:      pick(o.MaxPerFeed, fc.MaxPerFeed, 10),
		MaxTotal:        pick(o.MaxTotal, fc.MaxTotal, 100),
		ShowSource:      pick(o.ShowSource, fc.ShowSource, true),
		StatusBar:       pick(o.StatusBar, fc.StatusBar, false),
		ClickModifier:   ClickModifier(pick(o.ClickModifier, fc.ClickModifier, string(ClickNone))),
		Rotation:        RotationMode(pick(o.Rotation, fc.Rotation, string(RotationContinuous))),
		configPath:      path,
		overrides:       o,
	}

	if o.Feeds != nil {
		cfg.FeedsPath = *o.Feeds
	} else if fc.Feeds != nil {
		cfg.FeedsPath = expandHome(*fc.Feeds)
	} else {
		cfg.FeedsPath = discoverFeedsFile()
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Reload re-reads the config file and redoes the merge with the same
// CLI overrides this Config was loaded with.
func (c *Config) Reload() (*Config, error) {
	return Load(c.configPath, c.overrides)
}

// pick returns the first non-nil value, or the default.
func pick[T any](cli, file *T, def T) T {
	if cli != nil {
		return *cli
	}
	if file != nil {
		return *file
	}
	return def
}

// Dir returns the chyron config directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "chyron")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chyron")
}

// discoverFeedsFile finds the feeds file in priority order: an
// existing newsboat urls file, then the chyron config directory. The
// chyron path is returned even when absent so the startup error names
// a useful location.
func discoverFeedsFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		newsboat := filepath.Join(home, ".newsboat", "urls")
		if _, err := os.Stat(newsboat); err == nil {
			return newsboat
		}
	}
	return filepath.Join(Dir(), "urls")
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Example is a commented sample config file.
const Example = `# Chyron configuration

# Path to feeds file (default: ~/.newsboat/urls or ~/.config/chyron/urls)
# feeds = "~/.config/chyron/urls"

# Delimiter between headlines
delimiter = " ••• "

# Scroll speed in characters per second
speed = 8

# Sort mode: random, by_source, by_date, by_date_asc
sort = "by_date"

# Pause mode: hover (pause on mouse hover), focus (pause when window loses focus), never
pause = "hover"

# Feed refresh interval in minutes
refresh_minutes = 5

# Maximum age of headlines in hours
max_age_hours = 24

# Maximum headlines per feed
max_per_feed = 10

# Maximum total headlines in rotation
max_total = 100

# Show source prefix on headlines [Source Name]
show_source = true

# Show status bar at bottom
status_bar = false

# Modifier required for clicks: none, ctrl, shift, alt
click_modifier = "none"

# Rotation mode: continuous, or fair (unshown headlines first)
rotation = "continuous"
`
