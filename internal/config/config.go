package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/buffer"
)

// Config is the typeset configuration.
type Config struct {
	// FontSize is the em size in pixels.
	FontSize int `toml:"font_size"`

	// LineHeight is the distance between baselines in pixels.
	LineHeight int `toml:"line_height"`

	// Theme holds the display colors.
	Theme Theme `toml:"theme"`

	// Input holds text input policy settings.
	Input Input `toml:"input"`
}

// Theme holds display colors as "#rrggbb" hex strings.
type Theme struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

// Input holds text input policy settings.
type Input struct {
	// AllowTab permits inserting tab characters. Other control characters
	// are always rejected.
	AllowTab bool `toml:"allow_tab"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FontSize:   14,
		LineHeight: 20,
		Theme: Theme{
			Foreground: "#d8dee9",
			Background: "#2e3440",
		},
		Input: Input{AllowTab: true},
	}
}

// Load reads the configuration file at path, filling unset values from the
// defaults. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks metrics and theme colors.
func (c Config) Validate() error {
	if c.FontSize <= 0 || c.LineHeight <= 0 {
		return fmt.Errorf("%w: font_size=%d line_height=%d", ErrInvalidMetrics, c.FontSize, c.LineHeight)
	}
	for name, value := range map[string]string{
		"foreground": c.Theme.Foreground,
		"background": c.Theme.Background,
	} {
		if value == "" {
			continue
		}
		if _, err := attrs.ParseHex(value); err != nil {
			return fmt.Errorf("%w: %s = %q", ErrInvalidColor, name, value)
		}
	}
	return nil
}

// Metrics returns the configured buffer metrics.
func (c Config) Metrics() buffer.Metrics {
	return buffer.NewMetrics(c.FontSize, c.LineHeight)
}

// Foreground returns the parsed foreground color, falling back to the
// default when unset.
func (c Config) Foreground() attrs.Color {
	return parseColor(c.Theme.Foreground, Default().Theme.Foreground)
}

// Background returns the parsed background color, falling back to the
// default when unset.
func (c Config) Background() attrs.Color {
	return parseColor(c.Theme.Background, Default().Theme.Background)
}

// InsertPolicy returns the rune predicate the buffer should use for Insert.
func (c Config) InsertPolicy() func(rune) bool {
	allowTab := c.Input.AllowTab
	return func(r rune) bool {
		if r == '\t' {
			return allowTab
		}
		if r < 0x20 || r == 0x7F {
			return false
		}
		return true
	}
}

func parseColor(value, fallback string) attrs.Color {
	if value != "" {
		if c, err := attrs.ParseHex(value); err == nil {
			return c
		}
	}
	c, _ := attrs.ParseHex(fallback)
	return c
}
