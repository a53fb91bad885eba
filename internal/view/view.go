// Package view provides an in-memory text view: a monospace buffer with a
// caret, a selection and a scrollable viewport. It answers the host.View
// queries, publishes the host topics when its state changes, and keeps the
// adornments of its overlay layer attached to their lines.
package view

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/overlay"
)

// DecorationLayer is the name of the layer decorations are added to.
const DecorationLayer = "decorations"

// View is an in-memory text view. All methods are safe for concurrent
// use, but events are published on the calling goroutine after the view's
// lock is released, so handlers may query the view.
type View struct {
	mu sync.RWMutex

	lines  [][]rune
	starts []host.Position
	// widths caches each line's width in columns.
	widths []int

	metrics Metrics
	caret   host.Position
	sel     host.Selection
	vp      host.Viewport
	topLine int
	rows    int
	cols    int

	// inLayout is set between BeginLayout and EndLayout.
	inLayout bool

	pub    *event.Publisher
	layer  *overlay.Layer
	logger *zap.Logger
}

// Option configures a View.
type Option func(*View)

// WithMetrics sets the layout grid.
func WithMetrics(m Metrics) Option {
	return func(v *View) {
		v.metrics = m.normalized()
	}
}

// WithSize sets the visible size in cells.
func WithSize(cols, rows int) Option {
	return func(v *View) {
		v.cols = max(1, cols)
		v.rows = max(1, rows)
	}
}

// WithPublisher sets where view events are published. Without one the
// view is silent.
func WithPublisher(p *event.Publisher) Option {
	return func(v *View) {
		v.pub = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a view over text. Lines are split on "\n"; a trailing "\r"
// is kept as text.
func New(text string, opts ...Option) *View {
	v := &View{
		metrics: DefaultMetrics(),
		rows:    24,
		cols:    80,
		layer:   overlay.NewLayer(DecorationLayer),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.vp.Width = float64(v.cols) * v.metrics.CellWidth
	v.setText(text)
	return v
}

// LinesValid reports whether the view is laid out.
func (v *View) LinesValid() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.inLayout
}

// LineContaining resolves pos to its laid-out line. Only lines inside the
// visible rows are formatted.
func (v *View) LineContaining(pos host.Position) (host.Line, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.inLayout {
		return host.Line{}, false
	}
	n, ok := v.lineIndex(pos)
	if !ok {
		return host.Line{}, false
	}
	if first, last := v.visibleRange(); n < first || n >= last {
		return host.Line{}, false
	}
	return v.lineGeometry(n), true
}

// Viewport returns the horizontal viewport.
func (v *View) Viewport() host.Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vp
}

// Selection returns the selection.
func (v *View) Selection() host.Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sel
}

// Caret returns the caret position.
func (v *View) Caret() host.Position {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.caret
}

// Layer returns the decoration layer.
func (v *View) Layer() *overlay.Layer {
	return v.layer
}

// Metrics returns the layout grid.
func (v *View) Metrics() Metrics {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics
}

// TopLine returns the first visible line number.
func (v *View) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// Cols returns the visible width in cells.
func (v *View) Cols() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cols
}

// Rows returns the number of visible lines.
func (v *View) Rows() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rows
}

// LineCount returns the number of lines in the buffer.
func (v *View) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.lines)
}

// LineText returns the text of line n without its line break.
func (v *View) LineText(n int) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if n < 0 || n >= len(v.lines) {
		return ""
	}
	return string(v.lines[n])
}

// Text returns the whole buffer.
func (v *View) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	parts := make([]string, len(v.lines))
	for i, line := range v.lines {
		parts[i] = string(line)
	}
	return strings.Join(parts, "\n")
}

// VisibleLines returns the formatted lines, top to bottom.
func (v *View) VisibleLines() []host.Line {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.inLayout {
		return nil
	}
	return v.formatted(v.visibleRange())
}

// Position returns the buffer position of line n, column col (in runes),
// clamped to the buffer.
func (v *View) Position(line, col int) host.Position {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.position(line, col)
}

// LineColumn returns the line number and rune column of pos.
func (v *View) LineColumn(pos host.Position) (line, col int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	n, _ := v.lineIndex(v.clamp(pos))
	return n, int(v.clamp(pos) - v.starts[n])
}

// VisualColumn returns the display column of pos within its line.
func (v *View) VisualColumn(pos host.Position) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visualColumn(pos)
}

func (v *View) visualColumn(pos host.Position) int {
	pos = v.clamp(pos)
	n, _ := v.lineIndex(pos)
	return v.metrics.columns(v.lines[n], int(pos-v.starts[n]))
}

func (v *View) position(line, col int) host.Position {
	line = max(0, min(line, len(v.lines)-1))
	col = max(0, min(col, len(v.lines[line])))
	return v.starts[line] + host.Position(col)
}

func (v *View) clamp(pos host.Position) host.Position {
	return max(0, min(pos, v.length()))
}

// lineIndex finds the line holding pos. Callers hold v.mu.
func (v *View) lineIndex(pos host.Position) (int, bool) {
	if pos < 0 || pos > v.length() {
		return 0, false
	}
	n := sort.Search(len(v.starts), func(i int) bool { return v.starts[i] > pos }) - 1
	return max(n, 0), true
}

// setText replaces the buffer. Callers hold v.mu or own v exclusively.
func (v *View) setText(text string) {
	raw := strings.Split(text, "\n")
	v.lines = make([][]rune, len(raw))
	v.widths = make([]int, len(raw))
	for i, line := range raw {
		v.lines[i] = []rune(line)
		v.widths[i] = v.metrics.columns(v.lines[i], len(v.lines[i]))
	}
	v.reindex()
	v.caret = v.clamp(v.caret)
	v.sel = host.Selection{Start: v.caret, End: v.caret}
	v.topLine = max(0, min(v.topLine, len(v.lines)-1))
}

// batch collects events raised under the lock so they can be published
// after it is released.
type batch struct {
	edit      *edit
	layout    *host.LayoutChanged
	width     *host.ViewportChanged
	left      *host.ViewportChanged
	caret     *host.CaretMoved
	selection *host.SelectionChanged
}

// edit describes a text replacement.
type edit struct {
	start          host.Position
	oldLen, newLen int
}

// flush relayouts the decoration layer and publishes the collected events.
// Layout goes first so decorations see formatted lines when reacting to
// caret and selection changes.
func (v *View) flush(ctx context.Context, b batch) error {
	if b.edit != nil {
		v.layer.TrackEdit(b.edit.start, b.edit.oldLen, b.edit.newLen)
	}
	if b.layout != nil {
		v.layer.Relayout(v.LineContaining)
	}
	if v.pub == nil {
		return nil
	}

	var errs []error
	if b.layout != nil {
		errs = append(errs, event.PublishEvent(ctx, v.pub, host.TopicLayoutChanged, *b.layout))
	}
	if b.width != nil {
		errs = append(errs, event.PublishEvent(ctx, v.pub, host.TopicViewportWidthChanged, *b.width))
	}
	if b.left != nil {
		errs = append(errs, event.PublishEvent(ctx, v.pub, host.TopicViewportLeftChanged, *b.left))
	}
	if b.caret != nil {
		errs = append(errs, event.PublishEvent(ctx, v.pub, host.TopicCaretMoved, *b.caret))
	}
	if b.selection != nil {
		errs = append(errs, event.PublishEvent(ctx, v.pub, host.TopicSelectionChanged, *b.selection))
	}

	err := errors.Join(errs...)
	if err != nil {
		v.logger.Debug("view event delivery failed", zap.Error(err))
	}
	return err
}
