package host

import "fmt"

// Position is an offset into the text buffer.
type Position int

// Span is a half-open buffer range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// NewSpan creates a span, swapping the bounds if needed.
func NewSpan(start, end Position) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of positions covered.
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// Contains reports whether pos lies in [Start, End).
func (s Span) Contains(pos Position) bool {
	return pos >= s.Start && pos < s.End
}

// String returns a string representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Line is a laid-out line of text. The geometry fields are only meaningful
// while the view that produced the line is laid out.
type Line struct {
	// Span covers the line's text, excluding the line break.
	Span Span

	// BreakLen is the length of the trailing line break (0 on the last line).
	BreakLen int

	// Number is the zero-based line number in the buffer.
	Number int

	// Layout edges in view coordinates.
	Left, Top, Right, Bottom float64
}

// ContainsPosition reports whether pos belongs to the line. The position
// just past the text (where the caret sits at end of line) and the line
// break itself both belong to the line.
func (l Line) ContainsPosition(pos Position) bool {
	return pos >= l.Span.Start && pos <= l.Span.End+Position(max(0, l.BreakLen-1))
}

// Height returns the line's vertical extent.
func (l Line) Height() float64 {
	return l.Bottom - l.Top
}

// Viewport is the visible horizontal window into the view.
type Viewport struct {
	Left  float64
	Width float64
}

// Right returns the viewport's right edge.
func (v Viewport) Right() float64 {
	return v.Left + v.Width
}

// Selection is the current selection. Start may be greater than End for
// backward selections.
type Selection struct {
	Start Position
	End   Position
}

// IsEmpty returns true if the selection has zero length.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Span returns the selection as an ordered span.
func (s Selection) Span() Span {
	return NewSpan(s.Start, s.End)
}
