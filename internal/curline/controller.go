// Package curline highlights the line holding the caret.
//
// The Controller listens to view events and keeps exactly one tagged band
// on the decoration layer while the selection is empty or confined to one
// line, and none otherwise. The band spans the viewport and is rebuilt only
// when its size or the color scheme changes.
package curline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/event/topic"
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/region"
	"github.com/dshills/linelight/internal/renderer/visual"
)

// Layer is the overlay capability the band is drawn through.
type Layer interface {
	// Swap replaces every adornment bearing tag with v at rect, attached
	// to the text of span.
	Swap(tag string, span host.Span, rect core.Rect, v *visual.Drawable) error

	// Clear removes every adornment bearing tag.
	Clear(tag string)

	// Present reports whether an adornment bearing tag exists.
	Present(tag string) bool
}

// Controller drives the current line highlight. It is not safe for
// concurrent use: the host must deliver its events from one goroutine.
type Controller struct {
	view    host.View
	bus     event.Bus
	layer   Layer
	formats host.FormatMap
	cache   *visual.Cache
	config  config
	logger  *zap.Logger

	subs   []event.Subscription
	closed bool

	state State
	// line and rect describe the band last swapped in.
	line host.Span
	rect core.Rect
}

// New creates a controller and subscribes it to the view topics on bus.
// Call Close to unsubscribe.
func New(view host.View, bus event.Bus, layer Layer, formats host.FormatMap, opts ...Option) (*Controller, error) {
	switch {
	case view == nil:
		return nil, ErrNilView
	case bus == nil:
		return nil, ErrNilBus
	case layer == nil:
		return nil, ErrNilLayer
	case formats == nil:
		return nil, ErrNilFormats
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Controller{
		view:    view,
		bus:     bus,
		layer:   layer,
		formats: formats,
		cache:   visual.NewCache(),
		config:  cfg,
		logger:  cfg.logger.With(zap.String("component", "curline")),
	}

	if err := c.subscribe(); err != nil {
		c.unsubscribe()
		return nil, err
	}
	return c, nil
}

func (c *Controller) subscribe() error {
	prio := event.WithPriority(c.config.priority)
	steps := []func() (event.Subscription, error){
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicLayoutChanged, c.onLayoutChanged, prio)
		},
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicCaretMoved, c.onCaretMoved, prio)
		},
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicSelectionChanged, c.onSelectionChanged, prio)
		},
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicViewportWidthChanged, c.onViewportChanged, prio)
		},
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicViewportLeftChanged, c.onViewportChanged, prio)
		},
		func() (event.Subscription, error) {
			return event.SubscribePayload(c.bus, host.TopicFormatMapChanged, c.onFormatMapChanged, prio)
		},
	}

	for _, step := range steps {
		sub, err := step()
		if err != nil {
			return fmt.Errorf("subscribing current line controller: %w", err)
		}
		c.subs = append(c.subs, sub)
	}
	return nil
}

func (c *Controller) unsubscribe() {
	for _, sub := range c.subs {
		if err := c.bus.Unsubscribe(sub); err != nil && !errors.Is(err, event.ErrSubscriptionNotFound) {
			c.logger.Warn("unsubscribe failed", zap.String("topic", sub.Topic().String()), zap.Error(err))
		}
	}
	c.subs = nil
}

// Close unsubscribes from the view and removes the band.
func (c *Controller) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.unsubscribe()
	c.hide()
	return nil
}

// State returns the highlight state.
func (c *Controller) State() State {
	return c.state
}

// Region returns the band's rectangle while highlighted.
func (c *Controller) Region() (core.Rect, bool) {
	return c.rect, c.state == StateHighlighted
}

// CacheStats returns the band cache counters.
func (c *Controller) CacheStats() visual.Stats {
	return c.cache.Stats()
}

// Enabled reports whether the highlight is shown at all.
func (c *Controller) Enabled() bool {
	return !c.config.disabled
}

// SetEnabled turns the highlight on or off.
func (c *Controller) SetEnabled(enabled bool) error {
	if c.closed {
		return ErrClosed
	}
	if enabled == !c.config.disabled {
		return nil
	}
	c.config.disabled = !enabled
	if !enabled {
		c.hide()
		return nil
	}
	return c.reset()
}

// Refresh recomputes the highlight from the view's current state.
func (c *Controller) Refresh() error {
	if c.closed {
		return ErrClosed
	}
	return c.reset()
}

// onLayoutChanged resets when the caret's line was laid out again. Lines
// that only moved are handled by the layer itself, which drops the band
// when its line leaves the layout; the controller then goes idle.
func (c *Controller) onLayoutChanged(_ context.Context, e host.LayoutChanged) error {
	caret := c.view.Caret()
	for _, line := range e.NewOrReformatted {
		if line.ContainsPosition(caret) {
			return c.reset()
		}
	}
	if c.state == StateHighlighted && !c.layer.Present(Tag) {
		return c.redraw(false)
	}
	return nil
}

func (c *Controller) onCaretMoved(_ context.Context, _ host.CaretMoved) error {
	return c.redraw(false)
}

func (c *Controller) onSelectionChanged(_ context.Context, _ host.SelectionChanged) error {
	return c.redraw(false)
}

func (c *Controller) onViewportChanged(_ context.Context, _ host.ViewportChanged) error {
	return c.redraw(false)
}

// onFormatMapChanged drops the cached band so the next one is painted
// with the new brush.
func (c *Controller) onFormatMapChanged(_ context.Context, _ host.FormatMapChanged) error {
	c.cache.Invalidate()
	return c.redraw(true)
}

// reset forgets the current band and recomputes it from scratch.
func (c *Controller) reset() error {
	c.state = StateIdle
	return c.redraw(true)
}

// redraw brings the layer in line with the view. Unless force is set, the
// band is only swapped when its line or rectangle changed, or it went
// missing from the layer.
func (c *Controller) redraw(force bool) error {
	if c.config.disabled {
		return nil
	}
	if !c.view.LinesValid() {
		c.logger.Debug("lines not laid out, skipping redraw")
		return nil
	}

	sel := c.view.Selection()
	start, ok := c.view.LineContaining(sel.Start)
	if !ok {
		c.hide()
		return nil
	}
	if sel.End != sel.Start {
		end, ok := c.view.LineContaining(sel.End)
		if !ok || end.Span != start.Span {
			c.hide()
			return nil
		}
	}

	rect := region.Compute(start, c.view.Viewport())
	if !force && c.state == StateHighlighted && c.line == start.Span &&
		c.rect.Equals(rect) && c.layer.Present(Tag) {
		return nil
	}

	band := c.cache.Ensure(rect, visual.BrushFunc(c.brush))
	if err := c.layer.Swap(Tag, start.Span, rect, band); err != nil {
		c.logger.Error("swapping highlight", zap.Error(err))
		c.state = StateIdle
		return fmt.Errorf("swapping highlight: %w", err)
	}

	c.state = StateHighlighted
	c.line = start.Span
	c.rect = rect
	c.logger.Debug("highlight drawn",
		zap.Int("line", start.Number),
		zap.Stringer("region", rect))
	return nil
}

// hide removes the band and goes idle.
func (c *Controller) hide() {
	if c.state == StateHighlighted || c.layer.Present(Tag) {
		c.layer.Clear(Tag)
	}
	c.state = StateIdle
	c.line = host.Span{}
	c.rect = core.Rect{}
}

func (c *Controller) brush() core.Brush {
	b, ok := c.formats.Brush(c.config.category)
	if !ok {
		c.logger.Warn("unknown format category, band will be transparent",
			zap.String("category", c.config.category))
		return core.NewBrush(core.ColorDefault, 0)
	}
	return b
}

// topics returns the topics the controller listens on.
func (c *Controller) topics() []topic.Topic {
	out := make([]topic.Topic, len(c.subs))
	for i, sub := range c.subs {
		out[i] = sub.Topic()
	}
	return out
}
