package config

import (
	"errors"
	"time"

	"github.com/mahyarmirrashed/setbackground/internal/desktop"
)

const (
	// DefaultConfigFilename is looked up under the XDG config directory.
	DefaultConfigFilename = "setbackground/config.yaml"

	DefaultInterval = 10 * time.Second
	MinInterval     = 3 * time.Second
)

var (
	ErrIntervalTooShort = errors.New("Minimum interval is 3 seconds.")
	ErrNoDesktop        = errors.New("Error: No valid desktop environment specified.")
	ErrManyDesktops     = errors.New("Error: Only one desktop environment may be specified.")
	ErrNoDirectories    = errors.New("Error: No valid directories provided.")
)

// Config holds the settings for one run of the wallpaper rotator.
type Config struct {
	Desktop       desktop.Environment // Environment whose wallpaper is set
	Directories   []string            // Root directories to pick images from
	Interval      time.Duration       // Time between wallpaper changes
	LogLevel      string              // Logging level: debug, info, warn, error
	Exclude       []string            // Glob patterns to exclude
	DryRun        bool                // If true, log commands instead of running them
	Notifications bool                // If true, send desktop notifications
	EmptyBackoff  time.Duration       // Wait after every directory came up empty; 0 retries at once
	Watch         bool                // If true, wake early from the back-off when images appear
}

// Default returns a Config with every optional field at its default.
func Default() *Config {
	return &Config{
		Interval: DefaultInterval,
		LogLevel: "info",
	}
}

// Validate checks the config in the order the command line is checked:
// interval, desktop environment, then directories.
func (c *Config) Validate() error {
	if c.Interval < MinInterval {
		return ErrIntervalTooShort
	}
	if c.Desktop == "" {
		return ErrNoDesktop
	}
	if _, err := desktop.Parse(string(c.Desktop)); err != nil {
		return ErrNoDesktop
	}
	if len(c.Directories) == 0 {
		return ErrNoDirectories
	}
	if c.EmptyBackoff < 0 {
		return errors.New("Error: empty-backoff must not be negative.")
	}
	return nil
}
