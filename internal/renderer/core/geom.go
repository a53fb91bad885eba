package core

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in layout units.
// Right and Bottom are exclusive edges.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// NewRect creates a rect from its edges.
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent, never negative.
func (r Rect) Width() float64 {
	return math.Max(0, r.Right-r.Left)
}

// Height returns the vertical extent, never negative.
func (r Rect) Height() float64 {
	return math.Max(0, r.Bottom-r.Top)
}

// IsEmpty returns true if the rect covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Offset returns the rect translated by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Equals returns true if the rects are identical.
func (r Rect) Equals(other Rect) bool {
	return r == other
}

// SameSize reports whether both dimensions differ by less than tolerance.
func (r Rect) SameSize(other Rect, tolerance float64) bool {
	return math.Abs(r.Width()-other.Width()) < tolerance &&
		math.Abs(r.Height()-other.Height()) < tolerance
}

// Cells converts the rect to terminal cells given the size of one cell in
// layout units. Partially covered cells are included.
func (r Rect) Cells(cellWidth, cellHeight float64) ScreenRect {
	if cellWidth <= 0 || cellHeight <= 0 {
		return ScreenRect{}
	}
	return ScreenRect{
		Top:    int(math.Floor(r.Top / cellHeight)),
		Left:   int(math.Floor(r.Left / cellWidth)),
		Bottom: int(math.Ceil(r.Bottom / cellHeight)),
		Right:  int(math.Ceil(r.Right / cellWidth)),
	}
}

// String returns a string representation of the rect.
func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width(), r.Height())
}

// ScreenRect represents a rectangular region in screen coordinates.
// Right and Bottom are exclusive.
type ScreenRect struct {
	Top, Left, Bottom, Right int
}

// NewScreenRect creates a screen rectangle.
func NewScreenRect(top, left, bottom, right int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: bottom, Right: right}
}

// Width returns the width of the rectangle.
func (r ScreenRect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r ScreenRect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has zero area.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Intersection returns the intersection of two rectangles.
func (r ScreenRect) Intersection(other ScreenRect) ScreenRect {
	result := ScreenRect{
		Top:    max(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Bottom: min(r.Bottom, other.Bottom),
		Right:  min(r.Right, other.Right),
	}
	if result.IsEmpty() {
		return ScreenRect{}
	}
	return result
}
