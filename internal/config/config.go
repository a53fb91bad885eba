// Package config loads linelight's settings.
//
// Settings come from a TOML file, then LINELIGHT_* environment variables,
// then command-line flags (applied by the caller). A missing file is not an
// error: defaults apply.
//
//	[log]
//	level = "debug"
//	file = "/tmp/linelight.log"
//
//	[theme]
//	name = "Monokai"
//	file = "~/.config/linelight/theme.toml"
//
//	[highlight]
//	enabled = true
//	category = "CurrentLine"
//
//	[view]
//	tab_width = 8
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LINELIGHT_"

// Config holds all settings.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Theme     ThemeConfig     `toml:"theme"`
	Highlight HighlightConfig `toml:"highlight"`
	View      ViewConfig      `toml:"view"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File receives log output. Empty discards logs, since the terminal
	// belongs to the editor.
	File string `toml:"file"`
}

// ThemeConfig selects the color scheme.
type ThemeConfig struct {
	// Name selects a registered theme.
	Name string `toml:"name"`

	// File loads a theme from disk (TOML, YAML or Lua) and watches it.
	// It takes precedence over Name.
	File string `toml:"file"`

	// Dir holds extra themes registered at startup.
	Dir string `toml:"dir"`
}

// HighlightConfig configures the current line highlight.
type HighlightConfig struct {
	Enabled  bool   `toml:"enabled"`
	Category string `toml:"category"`
}

// ViewConfig configures the text view.
type ViewConfig struct {
	CellWidth  float64 `toml:"cell_width"`
	LineHeight float64 `toml:"line_height"`
	TabWidth   int     `toml:"tab_width"`

	// Width and Height fix the view size in cells. Zero follows the
	// terminal.
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Name: "Default Dark",
		},
		Highlight: HighlightConfig{
			Enabled:  true,
			Category: "CurrentLine",
		},
		View: ViewConfig{
			CellWidth:  1,
			LineHeight: 1,
			TabWidth:   4,
		},
	}
}

// Load reads the configuration file at path over the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data over the defaults.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return cfg, nil
}

// envBinding ties an environment variable to a setting.
type envBinding struct {
	name  string
	path  string
	apply func(c *Config, value string) error
}

func envBindings() []envBinding {
	str := func(dst func(*Config) *string) func(*Config, string) error {
		return func(c *Config, v string) error {
			*dst(c) = v
			return nil
		}
	}
	return []envBinding{
		{"LOG_LEVEL", "log.level", str(func(c *Config) *string { return &c.Log.Level })},
		{"LOG_FILE", "log.file", str(func(c *Config) *string { return &c.Log.File })},
		{"THEME", "theme.name", str(func(c *Config) *string { return &c.Theme.Name })},
		{"THEME_FILE", "theme.file", str(func(c *Config) *string { return &c.Theme.File })},
		{"THEME_DIR", "theme.dir", str(func(c *Config) *string { return &c.Theme.Dir })},
		{"HIGHLIGHT_CATEGORY", "highlight.category", str(func(c *Config) *string { return &c.Highlight.Category })},
		{"HIGHLIGHT_ENABLED", "highlight.enabled", func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Highlight.Enabled = b
			return nil
		}},
		{"TAB_WIDTH", "view.tab_width", func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			c.View.TabWidth = n
			return nil
		}},
	}
}

// ApplyEnv overlays LINELIGHT_* variables found through lookup, which is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for _, b := range envBindings() {
		val, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.apply(c, strings.TrimSpace(val)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s for %s: %v", ErrInvalidEnv, EnvPrefix, b.name, b.path, err))
		}
	}
	return errors.Join(errs...)
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	valid := false
	for _, l := range logLevels {
		if strings.EqualFold(c.Log.Level, l) {
			valid = true
		}
	}
	if !valid {
		fail("log.level", "must be one of "+strings.Join(logLevels, ", "), c.Log.Level)
	}

	if c.Highlight.Category == "" {
		fail("highlight.category", "must not be empty", c.Highlight.Category)
	}
	if c.View.CellWidth <= 0 {
		fail("view.cell_width", "must be positive", c.View.CellWidth)
	}
	if c.View.LineHeight <= 0 {
		fail("view.line_height", "must be positive", c.View.LineHeight)
	}
	if c.View.TabWidth < 1 || c.View.TabWidth > 16 {
		fail("view.tab_width", "must be between 1 and 16", c.View.TabWidth)
	}
	if c.View.Width < 0 {
		fail("view.width", "must not be negative", c.View.Width)
	}
	if c.View.Height < 0 {
		fail("view.height", "must not be negative", c.View.Height)
	}
	return errors.Join(errs...)
}
