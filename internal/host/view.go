package host

import (
	"github.com/dshills/linelight/internal/renderer/core"
)

// View answers geometry and state queries about a text view.
type View interface {
	// LinesValid reports whether the line collection is laid out. While it
	// is false, no other geometry query may be trusted.
	LinesValid() bool

	// LineContaining resolves a buffer position to its laid-out line.
	// ok is false when the position is not in a formatted line.
	LineContaining(pos Position) (line Line, ok bool)

	// Viewport returns the current horizontal viewport.
	Viewport() Viewport

	// Selection returns the current selection endpoints.
	Selection() Selection

	// Caret returns the caret position.
	Caret() Position
}

// FormatMap maps named visual categories to brushes.
type FormatMap interface {
	// Brush returns the brush for category. ok is false when the category
	// is unknown.
	Brush(category string) (brush core.Brush, ok bool)
}
