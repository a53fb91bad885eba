package host

import "github.com/dshills/linelight/internal/event/topic"

// View event topics.
const (
	// TopicLayoutChanged is published after lines were formatted, reformatted
	// or scrolled into view.
	TopicLayoutChanged topic.Topic = "view.layout.changed"

	// TopicCaretMoved is published when the caret position changes.
	TopicCaretMoved topic.Topic = "view.caret.moved"

	// TopicSelectionChanged is published when the selection changes.
	TopicSelectionChanged topic.Topic = "view.selection.changed"

	// TopicViewportWidthChanged is published when the viewport is resized.
	TopicViewportWidthChanged topic.Topic = "view.viewport.width.changed"

	// TopicViewportLeftChanged is published on horizontal scroll.
	TopicViewportLeftChanged topic.Topic = "view.viewport.left.changed"

	// TopicFormatMapChanged is published when the color scheme mapping of
	// one or more categories changes.
	TopicFormatMapChanged topic.Topic = "view.formatmap.changed"
)

// LayoutChanged is published after a layout pass.
type LayoutChanged struct {
	// NewOrReformatted lists the lines that were laid out in this pass.
	NewOrReformatted []Line

	// VerticalTranslation is true when existing lines only moved vertically.
	VerticalTranslation bool
}

// CaretMoved is published when the caret moves.
type CaretMoved struct {
	Old Position
	New Position
}

// SelectionChanged is published when the selection changes.
type SelectionChanged struct {
	Old Selection
	New Selection
}

// ViewportChanged is published for both width and left changes.
type ViewportChanged struct {
	Old Viewport
	New Viewport
}

// FormatMapChanged is published when category brushes change.
type FormatMapChanged struct {
	// Categories lists the changed categories; empty means all.
	Categories []string
}
