package overlay

import (
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/visual"
)

// Adapter replaces tagged adornments on a layer. Decorations that keep a
// single visual use it instead of holding adornment references.
type Adapter struct {
	layer   *Layer
	resolve LineResolver
}

// NewAdapter creates an adapter for layer. resolve anchors new
// text-relative adornments to their line; it may be nil.
func NewAdapter(layer *Layer, resolve LineResolver) *Adapter {
	return &Adapter{layer: layer, resolve: resolve}
}

// Layer returns the wrapped layer.
func (a *Adapter) Layer() *Layer {
	return a.layer
}

// Swap removes every adornment bearing tag and adds v at region, attached
// to span and positioned relative to the span's text.
func (a *Adapter) Swap(tag string, span host.Span, region core.Rect, v *visual.Drawable) error {
	a.layer.RemoveByTag(tag)
	_, err := a.layer.Add(TextRelative, span, tag, v, region, a.resolve)
	return err
}

// Clear removes every adornment bearing tag.
func (a *Adapter) Clear(tag string) {
	a.layer.RemoveByTag(tag)
}

// Present reports whether any adornment bears tag.
func (a *Adapter) Present(tag string) bool {
	return len(a.layer.ByTag(tag)) > 0
}
