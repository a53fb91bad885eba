// Package theme provides color schemes and the format map that turns a
// scheme into per-category brushes for decorations.
package theme

import (
	"sort"
	"sync"

	"github.com/dshills/linelight/internal/renderer/core"
)

// lineHighlightMix is how far a derived line highlight moves from the
// background toward the foreground.
const lineHighlightMix = 0.08

// Theme defines the colors decorations are painted with.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the editor background color.
	Background core.Color

	// Foreground is the default text color.
	Foreground core.Color

	// Selection is the selection highlight color.
	Selection core.Color

	// Cursor is the cursor color.
	Cursor core.Color

	// LineHighlight is the current line highlight color.
	LineHighlight core.Color

	// LineHighlightAlpha is the opacity of the current line band.
	LineHighlightAlpha uint8
}

// LineHighlightBrush returns the brush for the current line band.
func (t *Theme) LineHighlightBrush() core.Brush {
	return core.NewBrush(t.LineHighlight, t.LineHighlightAlpha)
}

// DeriveLineHighlight returns a subtle tint of the background toward the
// foreground, for themes that do not name a line highlight color.
func DeriveLineHighlight(background, foreground core.Color) core.Color {
	return background.BlendLab(foreground, lineHighlightMix)
}

// Clone returns a copy of the theme.
func (t *Theme) Clone() *Theme {
	c := *t
	return &c
}

// DefaultTheme returns a sensible default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:               "Default Dark",
		Background:         core.ColorFromRGB(30, 30, 30),
		Foreground:         core.ColorFromRGB(212, 212, 212),
		Selection:          core.ColorFromRGB(64, 64, 128),
		Cursor:             core.ColorFromRGB(255, 255, 255),
		LineHighlight:      core.ColorFromRGB(40, 40, 40),
		LineHighlightAlpha: 255,
	}
}

// MonokaiTheme returns a Monokai-inspired theme.
func MonokaiTheme() *Theme {
	return &Theme{
		Name:               "Monokai",
		Background:         core.ColorFromRGB(39, 40, 34),
		Foreground:         core.ColorFromRGB(248, 248, 242),
		Selection:          core.ColorFromRGB(73, 72, 62),
		Cursor:             core.ColorFromRGB(248, 248, 240),
		LineHighlight:      core.ColorFromRGB(62, 61, 50),
		LineHighlightAlpha: 255,
	}
}

// DraculaTheme returns a Dracula-inspired theme.
func DraculaTheme() *Theme {
	return &Theme{
		Name:               "Dracula",
		Background:         core.ColorFromRGB(40, 42, 54),
		Foreground:         core.ColorFromRGB(248, 248, 242),
		Selection:          core.ColorFromRGB(68, 71, 90),
		Cursor:             core.ColorFromRGB(248, 248, 242),
		LineHighlight:      core.ColorFromRGB(68, 71, 90),
		LineHighlightAlpha: 255,
	}
}

// SolarizedDarkTheme returns a Solarized Dark theme.
func SolarizedDarkTheme() *Theme {
	return &Theme{
		Name:               "Solarized Dark",
		Background:         core.ColorFromRGB(0, 43, 54),
		Foreground:         core.ColorFromRGB(131, 148, 150),
		Selection:          core.ColorFromRGB(7, 54, 66),
		Cursor:             core.ColorFromRGB(131, 148, 150),
		LineHighlight:      core.ColorFromRGB(7, 54, 66),
		LineHighlightAlpha: 255,
	}
}

// LightTheme returns a light theme. Its band is a translucent blue, so it
// tints whatever background it lands on.
func LightTheme() *Theme {
	return &Theme{
		Name:               "Light",
		Background:         core.ColorFromRGB(255, 255, 255),
		Foreground:         core.ColorFromRGB(0, 0, 0),
		Selection:          core.ColorFromRGB(173, 214, 255),
		Cursor:             core.ColorFromRGB(0, 0, 0),
		LineHighlight:      core.ColorFromRGB(0, 0, 255),
		LineHighlightAlpha: 0x20,
	}
}

// Registry holds available themes.
type Registry struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

// NewRegistry creates a registry with the built-in themes. The default
// dark theme is current.
func NewRegistry() *Registry {
	r := &Registry{
		themes: make(map[string]*Theme),
	}

	r.Register(DefaultTheme())
	r.Register(MonokaiTheme())
	r.Register(DraculaTheme())
	r.Register(SolarizedDarkTheme())
	r.Register(LightTheme())

	r.current = r.themes["Default Dark"]
	return r
}

// Register adds or replaces a theme.
func (r *Registry) Register(theme *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.themes[theme.Name] = theme
	if r.current != nil && r.current.Name == theme.Name {
		r.current = theme
	}
}

// Get returns a theme by name.
func (r *Registry) Get(name string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the current theme.
func (r *Registry) Current() *Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetCurrent sets the current theme by name.
func (r *Registry) SetCurrent(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.themes[name]; ok {
		r.current = t
		return true
	}
	return false
}

// Next makes the theme after the current one (by name) current and
// returns it.
func (r *Registry) Next() *Theme {
	names := r.Names()

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, name := range names {
		if r.current != nil && name == r.current.Name {
			r.current = r.themes[names[(i+1)%len(names)]]
			return r.current
		}
	}
	if len(names) > 0 {
		r.current = r.themes[names[0]]
	}
	return r.current
}

// Names returns all registered theme names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
