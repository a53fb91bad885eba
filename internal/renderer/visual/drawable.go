// Package visual builds and caches the drawable painted behind the current
// line.
package visual

import (
	"math"

	"github.com/google/uuid"

	"github.com/dshills/linelight/internal/renderer/core"
)

// CornerRadius softens the band's corners.
const CornerRadius = 1.0

// RoundedRect is a rectangle with elliptical corners, anchored at the
// origin. The layer positions it.
type RoundedRect struct {
	Width, Height    float64
	RadiusX, RadiusY float64
}

// Bounds returns the geometry's rectangle at the origin.
func (g RoundedRect) Bounds() core.Rect {
	return core.NewRect(0, 0, g.Width, g.Height)
}

// Contains reports whether the point (x, y), relative to the geometry's
// top-left corner, lies inside the shape.
func (g RoundedRect) Contains(x, y float64) bool {
	if x < 0 || y < 0 || x > g.Width || y > g.Height {
		return false
	}
	rx := math.Min(g.RadiusX, g.Width/2)
	ry := math.Min(g.RadiusY, g.Height/2)
	if rx <= 0 || ry <= 0 {
		return true
	}

	// Distance into the nearest corner box, if any.
	dx := math.Max(0, math.Max(rx-x, x-(g.Width-rx)))
	dy := math.Max(0, math.Max(ry-y, y-(g.Height-ry)))
	if dx == 0 || dy == 0 {
		return true
	}
	return (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) <= 1
}

// Drawable is a frozen, paintable visual. Drawables are never mutated once
// built; the cache replaces them instead.
type Drawable struct {
	// ID is an opaque handle for the drawable.
	ID string

	Geometry RoundedRect
	Fill     core.Brush

	// Stroke is nil when the shape has no outline.
	Stroke *core.Pen
}

// NewDrawable builds a borderless rounded band of the given size.
func NewDrawable(width, height float64, fill core.Brush) *Drawable {
	return &Drawable{
		ID: uuid.NewString(),
		Geometry: RoundedRect{
			Width:   width,
			Height:  height,
			RadiusX: CornerRadius,
			RadiusY: CornerRadius,
		},
		Fill: fill,
	}
}

// Width returns the drawable's width.
func (d *Drawable) Width() float64 { return d.Geometry.Width }

// Height returns the drawable's height.
func (d *Drawable) Height() float64 { return d.Geometry.Height }
