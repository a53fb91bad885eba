package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/linelight/internal/renderer/core"
)

// ErrUnsupportedFormat is returned for theme files with an unknown extension.
var ErrUnsupportedFormat = errors.New("theme: unsupported file format")

// ParseError represents an error decoding a theme file.
type ParseError struct {
	Path    string
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("theme %s: %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("theme %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// themeFile is the on-disk representation shared by the TOML and YAML
// formats. Colors are hex strings.
type themeFile struct {
	Name               string `toml:"name" yaml:"name"`
	Background         string `toml:"background" yaml:"background"`
	Foreground         string `toml:"foreground" yaml:"foreground"`
	Selection          string `toml:"selection" yaml:"selection"`
	Cursor             string `toml:"cursor" yaml:"cursor"`
	LineHighlight      string `toml:"line_highlight" yaml:"line_highlight"`
	LineHighlightAlpha *int   `toml:"line_highlight_alpha" yaml:"line_highlight_alpha"`
}

// LoadFile loads a theme, choosing the decoder by file extension.
func LoadFile(ctx context.Context, path string) (*Theme, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadDecoded(path, toml.Unmarshal)
	case ".yaml", ".yml":
		return loadDecoded(path, yaml.Unmarshal)
	case ".lua":
		return LoadLuaFile(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseTOML decodes a theme from TOML data.
func ParseTOML(source string, data []byte) (*Theme, error) {
	return parseDecoded(source, data, toml.Unmarshal)
}

// ParseYAML decodes a theme from YAML data.
func ParseYAML(source string, data []byte) (*Theme, error) {
	return parseDecoded(source, data, yaml.Unmarshal)
}

func loadDecoded(path string, unmarshal func([]byte, any) error) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}
	return parseDecoded(path, data, unmarshal)
}

func parseDecoded(source string, data []byte, unmarshal func([]byte, any) error) (*Theme, error) {
	var f themeFile
	if err := unmarshal(data, &f); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return f.toTheme(source)
}

// toTheme converts the decoded file, falling back to the default theme
// for colors it leaves out.
func (f themeFile) toTheme(source string) (*Theme, error) {
	t := DefaultTheme()
	if f.Name != "" {
		t.Name = f.Name
	} else {
		t.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	fields := []struct {
		name  string
		value string
		dst   *core.Color
	}{
		{"background", f.Background, &t.Background},
		{"foreground", f.Foreground, &t.Foreground},
		{"selection", f.Selection, &t.Selection},
		{"cursor", f.Cursor, &t.Cursor},
	}
	for _, fld := range fields {
		if fld.value == "" {
			continue
		}
		c, err := core.ColorFromHex(fld.value)
		if err != nil {
			return nil, &ParseError{Path: source, Field: fld.name, Message: err.Error(), Err: err}
		}
		*fld.dst = c
	}

	if f.LineHighlight != "" {
		c, err := core.ColorFromHex(f.LineHighlight)
		if err != nil {
			return nil, &ParseError{Path: source, Field: "line_highlight", Message: err.Error(), Err: err}
		}
		t.LineHighlight = c
	} else {
		t.LineHighlight = DeriveLineHighlight(t.Background, t.Foreground)
	}

	t.LineHighlightAlpha = 255
	if f.LineHighlightAlpha != nil {
		a := *f.LineHighlightAlpha
		if a < 0 || a > 255 {
			return nil, &ParseError{
				Path:    source,
				Field:   "line_highlight_alpha",
				Message: fmt.Sprintf("alpha %d out of range 0-255", a),
			}
		}
		t.LineHighlightAlpha = uint8(a)
	}
	return t, nil
}

// LoadDir loads every theme file in dir into the registry. Files that fail
// to load are returned as a joined error; the rest are still registered.
func (r *Registry) LoadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading theme directory %s: %w", dir, err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".toml", ".yaml", ".yml", ".lua":
		default:
			continue
		}
		t, err := LoadFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.Register(t)
	}
	return errors.Join(errs...)
}
