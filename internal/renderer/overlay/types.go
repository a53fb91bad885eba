// Package overlay provides the named adornment layers that decorations are
// painted on, and the tag-based adapter the current line highlight uses to
// replace its single adornment.
package overlay

import (
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/visual"
)

// Behavior controls how an adornment follows view changes.
type Behavior uint8

const (
	// TextRelative adornments follow their line as it scrolls or reflows and
	// are dropped when the line leaves the layout.
	TextRelative Behavior = iota

	// ViewportRelative adornments stay at fixed view coordinates.
	ViewportRelative

	// OwnerControlled adornments are never moved or dropped by the layer.
	OwnerControlled
)

// String returns the string representation of the behavior.
func (b Behavior) String() string {
	switch b {
	case TextRelative:
		return "text-relative"
	case ViewportRelative:
		return "viewport-relative"
	case OwnerControlled:
		return "owner-controlled"
	default:
		return "unknown"
	}
}

// Adornment is a visual placed on a layer.
type Adornment struct {
	// ID uniquely identifies the adornment within its layer.
	ID string

	// Tag groups adornments for removal. May be empty.
	Tag string

	// Span is the buffer range the adornment is attached to.
	Span host.Span

	// Bounds is where the visual is painted, in view coordinates.
	Bounds core.Rect

	Visual   *visual.Drawable
	Behavior Behavior

	// anchorTop is the top of the anchoring line when last positioned.
	anchorTop float64
}

// LineResolver resolves a buffer position to its laid-out line.
type LineResolver func(pos host.Position) (host.Line, bool)

// Stats counts layer mutations.
type Stats struct {
	Adds    int
	Removes int
	Moves   int
}
