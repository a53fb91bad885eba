package theme

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
)

// Format map categories.
const (
	CategoryCurrentLine = "CurrentLine"
	CategorySelection   = "Selection"
	CategoryText        = "Text"
	CategoryCaret       = "Caret"
)

// ErrNilTheme is returned when a nil theme is applied.
var ErrNilTheme = errors.New("theme: nil theme")

// FormatMap maps categories to brushes derived from the active theme, plus
// any per-category overrides. Changes are announced on
// host.TopicFormatMapChanged.
type FormatMap struct {
	mu        sync.RWMutex
	theme     *Theme
	brushes   map[string]core.Brush
	overrides map[string]core.Brush
	pub       *event.Publisher
}

// NewFormatMap creates a format map for theme. pub may be nil, in which
// case changes are not announced.
func NewFormatMap(t *Theme, pub *event.Publisher) *FormatMap {
	if t == nil {
		t = DefaultTheme()
	}
	m := &FormatMap{
		theme:     t,
		overrides: make(map[string]core.Brush),
		pub:       pub,
	}
	m.brushes = m.build()
	return m
}

// Brush returns the brush for category.
func (m *FormatMap) Brush(category string) (core.Brush, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.brushes[category]
	return b, ok
}

// Theme returns the active theme.
func (m *FormatMap) Theme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// Categories returns the known categories, sorted.
func (m *FormatMap) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.brushes))
	for name := range m.brushes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetTheme switches to a new theme and announces a change of every
// category. Overrides survive the switch.
func (m *FormatMap) SetTheme(ctx context.Context, t *Theme) error {
	if t == nil {
		return ErrNilTheme
	}

	m.mu.Lock()
	m.theme = t
	m.brushes = m.build()
	m.mu.Unlock()

	return m.announce(ctx, nil)
}

// Set overrides the brush of one category. Setting the brush a category
// already has is a no-op and announces nothing.
func (m *FormatMap) Set(ctx context.Context, category string, b core.Brush) error {
	m.mu.Lock()
	if cur, ok := m.brushes[category]; ok && cur.Equals(b) {
		m.mu.Unlock()
		return nil
	}
	m.overrides[category] = b
	m.brushes[category] = b
	m.mu.Unlock()

	return m.announce(ctx, []string{category})
}

// Reset drops the override of a category, returning it to the theme's
// brush.
func (m *FormatMap) Reset(ctx context.Context, category string) error {
	m.mu.Lock()
	if _, ok := m.overrides[category]; !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.overrides, category)
	m.brushes = m.build()
	m.mu.Unlock()

	return m.announce(ctx, []string{category})
}

// build derives the brush table. Callers hold m.mu.
func (m *FormatMap) build() map[string]core.Brush {
	t := m.theme
	brushes := map[string]core.Brush{
		CategoryCurrentLine: t.LineHighlightBrush(),
		CategorySelection:   core.SolidBrush(t.Selection),
		CategoryText:        core.SolidBrush(t.Foreground),
		CategoryCaret:       core.SolidBrush(t.Cursor),
	}
	for name, b := range m.overrides {
		brushes[name] = b
	}
	return brushes
}

func (m *FormatMap) announce(ctx context.Context, categories []string) error {
	if m.pub == nil {
		return nil
	}
	return event.PublishEvent(ctx, m.pub, host.TopicFormatMapChanged, host.FormatMapChanged{
		Categories: categories,
	})
}

var _ host.FormatMap = (*FormatMap)(nil)
