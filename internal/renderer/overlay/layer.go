package overlay

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/visual"
)

// ErrNilVisual is returned when adding an adornment without a visual.
var ErrNilVisual = errors.New("overlay: nil visual")

// Layer is a named rendering layer holding adornments in paint order.
type Layer struct {
	mu sync.RWMutex

	name       string
	adornments []*Adornment

	// version increments on every mutation so painters can skip
	// unchanged frames.
	version uint64
	stats   Stats
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Layer {
	return &Layer{name: name}
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

// Add places a visual at bounds, attached to span. The anchoring line is
// looked up through resolve so text-relative adornments can follow it; a
// nil resolve, or an unresolvable span, anchors at bounds.Top.
func (l *Layer) Add(behavior Behavior, span host.Span, tag string, v *visual.Drawable, bounds core.Rect, resolve LineResolver) (string, error) {
	if v == nil {
		return "", ErrNilVisual
	}

	anchor := bounds.Top
	if resolve != nil {
		if line, ok := resolve(span.Start); ok {
			anchor = line.Top
		}
	}

	a := &Adornment{
		ID:        uuid.NewString(),
		Tag:       tag,
		Span:      span,
		Bounds:    bounds,
		Visual:    v,
		Behavior:  behavior,
		anchorTop: anchor,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.adornments = append(l.adornments, a)
	l.version++
	l.stats.Adds++
	return a.ID, nil
}

// Remove removes a specific adornment by ID.
func (l *Layer) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, a := range l.adornments {
		if a.ID == id {
			l.adornments = append(l.adornments[:i], l.adornments[i+1:]...)
			l.version++
			l.stats.Removes++
			return true
		}
	}
	return false
}

// RemoveByTag removes every adornment bearing tag and returns how many
// were removed.
func (l *Layer) RemoveByTag(tag string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.adornments[:0]
	removed := 0
	for _, a := range l.adornments {
		if a.Tag == tag {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	clear(l.adornments[len(kept):])
	l.adornments = kept

	if removed > 0 {
		l.version++
		l.stats.Removes += removed
	}
	return removed
}

// Clear removes all adornments.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.adornments) == 0 {
		return
	}
	l.stats.Removes += len(l.adornments)
	l.adornments = nil
	l.version++
}

// ByTag returns copies of the adornments bearing tag, in paint order.
func (l *Layer) ByTag(tag string) []Adornment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Adornment
	for _, a := range l.adornments {
		if a.Tag == tag {
			result = append(result, *a)
		}
	}
	return result
}

// Adornments returns copies of all adornments in paint order.
func (l *Layer) Adornments() []Adornment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Adornment, len(l.adornments))
	for i, a := range l.adornments {
		result[i] = *a
	}
	return result
}

// Count returns the number of adornments.
func (l *Layer) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.adornments)
}

// Version returns the mutation counter.
func (l *Layer) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Stats returns the mutation counters.
func (l *Layer) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// TrackEdit keeps adornment spans attached to their text after oldLen
// positions at start were replaced by newLen positions. Positions at or
// after the replaced range shift; positions inside it collapse to start.
func (l *Layer) TrackEdit(start host.Position, oldLen, newLen int) {
	if oldLen == newLen && oldLen == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	end := start + host.Position(oldLen)
	delta := host.Position(newLen - oldLen)
	shift := func(p host.Position) host.Position {
		switch {
		case p >= end:
			return p + delta
		case p > start:
			return start
		}
		return p
	}
	for _, a := range l.adornments {
		if a.Behavior == OwnerControlled {
			continue
		}
		a.Span = host.Span{Start: shift(a.Span.Start), End: shift(a.Span.End)}
	}
}

// Relayout repositions text-relative adornments after a layout pass. Each
// one follows the vertical movement of the line containing its span start;
// adornments whose line is no longer laid out are removed.
func (l *Layer) Relayout(resolve LineResolver) {
	if resolve == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.adornments[:0]
	changed := false
	for _, a := range l.adornments {
		if a.Behavior != TextRelative {
			kept = append(kept, a)
			continue
		}

		line, ok := resolve(a.Span.Start)
		if !ok {
			l.stats.Removes++
			changed = true
			continue
		}
		if dy := line.Top - a.anchorTop; dy != 0 {
			a.Bounds = a.Bounds.Offset(0, dy)
			a.anchorTop = line.Top
			l.stats.Moves++
			changed = true
		}
		kept = append(kept, a)
	}
	clear(l.adornments[len(kept):])
	l.adornments = kept

	if changed {
		l.version++
	}
}
