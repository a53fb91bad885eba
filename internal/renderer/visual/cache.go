package visual

import (
	"math"

	"github.com/dshills/linelight/internal/renderer/core"
)

// SizeTolerance is the smallest dimension change that forces a rebuild.
const SizeTolerance = 0.1

// BrushSource supplies the fill brush when the cache has none.
type BrushSource interface {
	Brush() core.Brush
}

// BrushFunc adapts a function to BrushSource.
type BrushFunc func() core.Brush

// Brush implements BrushSource.
func (f BrushFunc) Brush() core.Brush {
	return f()
}

// Stats counts cache outcomes.
type Stats struct {
	Builds        int
	Reuses        int
	Invalidations int
}

// Cache owns the single highlight drawable and the brush it was painted
// with. The zero value is an empty cache ready for use. A Cache is not safe
// for concurrent use; it lives on the view's dispatch goroutine.
type Cache struct {
	drawable *Drawable
	brush    *core.Brush
	stats    Stats
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Ensure returns a drawable sized to region, reusing the cached one when
// possible. The brush source is only consulted after an invalidation.
func (c *Cache) Ensure(region core.Rect, brushes BrushSource) *Drawable {
	if !c.NeedsNewImage(region) {
		c.stats.Reuses++
		return c.drawable
	}

	if c.brush == nil {
		b := brushes.Brush()
		c.brush = &b
	}
	c.drawable = NewDrawable(region.Width(), region.Height(), *c.brush)
	c.stats.Builds++
	return c.drawable
}

// NeedsNewImage reports whether Ensure would build a new drawable for
// region: when nothing is cached, the brush was invalidated, or either
// dimension differs from the cached one by SizeTolerance or more.
func (c *Cache) NeedsNewImage(region core.Rect) bool {
	if c.drawable == nil || c.brush == nil {
		return true
	}
	return math.Abs(c.drawable.Width()-region.Width()) >= SizeTolerance ||
		math.Abs(c.drawable.Height()-region.Height()) >= SizeTolerance
}

// Invalidate drops the drawable and brush so the next Ensure rebuilds
// both.
func (c *Cache) Invalidate() {
	c.drawable = nil
	c.brush = nil
	c.stats.Invalidations++
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
