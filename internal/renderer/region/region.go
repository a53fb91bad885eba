// Package region computes the rectangle covered by the current line
// highlight.
package region

import (
	"math"

	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
)

// RightInset keeps the band this far inside the viewport's right edge.
const RightInset = 2.0

// Compute returns the highlight rectangle for a laid-out line.
//
// The band starts at the viewport's left edge and runs to
// max(viewport.Right()-RightInset, line.Right), so short lines get a full
// width band and long lines stay covered under their text. Vertically it
// matches the line. The line must come from a view whose layout is valid.
func Compute(line host.Line, vp host.Viewport) core.Rect {
	return core.Rect{
		Left:   vp.Left,
		Top:    line.Top,
		Right:  math.Max(vp.Right()-RightInset, line.Right),
		Bottom: line.Bottom,
	}
}
