package core

import "fmt"

// Brush is a fill paint: a color with an opacity.
// Alpha 255 is fully opaque, 0 fully transparent.
type Brush struct {
	Color Color
	Alpha uint8
}

// SolidBrush returns an opaque brush of the given color.
func SolidBrush(c Color) Brush {
	return Brush{Color: c, Alpha: 255}
}

// NewBrush returns a brush with the given color and alpha.
func NewBrush(c Color, alpha uint8) Brush {
	return Brush{Color: c, Alpha: alpha}
}

// IsTransparent reports whether painting with the brush changes nothing.
func (b Brush) IsTransparent() bool {
	return b.Alpha == 0 || b.Color.IsDefault()
}

// Equals returns true if two brushes paint identically.
func (b Brush) Equals(other Brush) bool {
	return b.Alpha == other.Alpha && b.Color.Equals(other.Color)
}

// Over composites the brush over a background color and returns the
// resulting opaque color.
func (b Brush) Over(bg Color) Color {
	switch {
	case b.IsTransparent():
		return bg
	case b.Alpha == 255 || bg.IsDefault():
		return b.Color
	}
	return bg.Blend(b.Color, float64(b.Alpha)/255)
}

// String returns a string representation of the brush.
func (b Brush) String() string {
	if b.Alpha == 255 {
		return b.Color.String()
	}
	return fmt.Sprintf("%s@%d", b.Color, b.Alpha)
}

// Pen is a stroke paint used for outlines.
type Pen struct {
	Brush     Brush
	Thickness float64
}
