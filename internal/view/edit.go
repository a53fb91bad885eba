package view

import (
	"context"
	"slices"

	"github.com/dshills/linelight/internal/host"
)

// BeginLayout marks the line collection invalid. Until EndLayout, the view
// reports LinesValid false and resolves no lines.
func (v *View) BeginLayout() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inLayout = true
}

// EndLayout completes a layout pass and announces every visible line as
// reformatted.
func (v *View) EndLayout(ctx context.Context) error {
	v.mu.Lock()
	v.inLayout = false
	b := batch{layout: &host.LayoutChanged{NewOrReformatted: v.formatted(v.visibleRange())}}
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// Layout runs a full layout pass.
func (v *View) Layout(ctx context.Context) error {
	v.BeginLayout()
	return v.EndLayout(ctx)
}

// SetText replaces the buffer, keeping the caret where possible.
func (v *View) SetText(ctx context.Context, text string) error {
	v.mu.Lock()
	oldCaret, oldSel := v.caret, v.sel
	v.setText(text)
	b := batch{layout: &host.LayoutChanged{NewOrReformatted: v.formatted(v.visibleRange())}}
	v.caretEvents(&b, oldCaret, oldSel)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// Insert replaces the selection with text and collapses the caret after it.
func (v *View) Insert(ctx context.Context, text string) error {
	v.mu.Lock()
	span := v.sel.Span()
	b := v.replace(span.Start, span.End, []rune(text))
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// DeleteBackward deletes the selection, or the rune before the caret when
// the selection is empty.
func (v *View) DeleteBackward(ctx context.Context) error {
	v.mu.Lock()
	span := v.sel.Span()
	if span.Len() == 0 {
		if span.Start == 0 {
			v.mu.Unlock()
			return nil
		}
		span.Start--
	}
	b := v.replace(span.Start, span.End, nil)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// replace splices text into [start, end) and moves the caret after it.
// Callers hold v.mu.
func (v *View) replace(start, end host.Position, text []rune) batch {
	oldCaret, oldSel := v.caret, v.sel
	start, end = v.clamp(start), v.clamp(end)

	first, _ := v.lineIndex(start)
	last, _ := v.lineIndex(end)
	head := v.lines[first][:start-v.starts[first]]
	tail := v.lines[last][end-v.starts[last]:]

	joined := make([]rune, 0, len(head)+len(text)+len(tail))
	joined = append(joined, head...)
	joined = append(joined, text...)
	joined = append(joined, tail...)

	var repl [][]rune
	for {
		i := slices.Index(joined, '\n')
		if i < 0 {
			repl = append(repl, joined)
			break
		}
		repl = append(repl, joined[:i:i])
		joined = joined[i+1:]
	}

	countChanged := len(repl) != last-first+1
	widths := make([]int, len(repl))
	for i, line := range repl {
		widths[i] = v.metrics.columns(line, len(line))
	}
	v.lines = slices.Replace(v.lines, first, last+1, repl...)
	v.widths = slices.Replace(v.widths, first, last+1, widths...)
	v.reindex()
	v.topLine = min(v.topLine, len(v.lines)-1)

	// A changed line count shifts every line below the edit.
	reformatEnd := first + len(repl)
	if countChanged {
		_, reformatEnd = v.visibleRange()
	}
	visFirst, visLast := v.visibleRange()
	layout := host.LayoutChanged{
		NewOrReformatted: v.formatted(max(first, visFirst), min(reformatEnd, visLast)),
	}
	b := batch{edit: &edit{start: start, oldLen: int(end - start), newLen: len(text)}, layout: &layout}

	v.caret = start + host.Position(len(text))
	v.sel = host.Selection{Start: v.caret, End: v.caret}
	v.scrollToCaret(&b)
	v.caretEvents(&b, oldCaret, oldSel)
	return b
}

// caretEvents records caret and selection changes. Callers hold v.mu.
func (v *View) caretEvents(b *batch, oldCaret host.Position, oldSel host.Selection) {
	if v.caret != oldCaret {
		b.caret = &host.CaretMoved{Old: oldCaret, New: v.caret}
	}
	if v.sel != oldSel {
		b.selection = &host.SelectionChanged{Old: oldSel, New: v.sel}
	}
}

// mergeLayout folds a layout change into the batch.
func (b *batch) mergeLayout(c host.LayoutChanged) {
	if b.layout == nil {
		b.layout = &c
		return
	}
	for _, line := range c.NewOrReformatted {
		if !slices.ContainsFunc(b.layout.NewOrReformatted, func(l host.Line) bool { return l.Number == line.Number }) {
			b.layout.NewOrReformatted = append(b.layout.NewOrReformatted, line)
		}
	}
	b.layout.VerticalTranslation = b.layout.VerticalTranslation && c.VerticalTranslation
}
