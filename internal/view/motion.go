package view

import (
	"context"

	"github.com/dshills/linelight/internal/host"
)

// Motion is a caret movement.
type Motion uint8

// Caret motions.
const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MovePageUp
	MovePageDown
	MoveBufferStart
	MoveBufferEnd
)

// Move moves the caret. With extend the selection grows from its anchor;
// otherwise it collapses onto the caret.
func (v *View) Move(ctx context.Context, m Motion, extend bool) error {
	v.mu.Lock()
	b := v.moveTo(v.target(m), extend)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// MoveTo moves the caret to pos.
func (v *View) MoveTo(ctx context.Context, pos host.Position, extend bool) error {
	v.mu.Lock()
	b := v.moveTo(pos, extend)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// Select sets the selection from anchor to active; the caret goes to
// active.
func (v *View) Select(ctx context.Context, anchor, active host.Position) error {
	v.mu.Lock()
	oldCaret, oldSel := v.caret, v.sel
	v.caret = v.clamp(active)
	v.sel = host.Selection{Start: v.clamp(anchor), End: v.caret}
	var b batch
	v.scrollToCaret(&b)
	v.caretEvents(&b, oldCaret, oldSel)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// Scroll scrolls vertically by delta lines without moving the caret.
func (v *View) Scroll(ctx context.Context, delta int) error {
	v.mu.Lock()
	var b batch
	v.scrollVertical(&b, v.topLine+delta)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// ScrollHorizontal sets the viewport's left edge, in layout units.
func (v *View) ScrollHorizontal(ctx context.Context, left float64) error {
	v.mu.Lock()
	var b batch
	v.scrollHorizontal(&b, left)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// Resize changes the visible size in cells.
func (v *View) Resize(ctx context.Context, cols, rows int) error {
	v.mu.Lock()
	cols, rows = max(1, cols), max(1, rows)
	var b batch

	if cols != v.cols {
		old := v.vp
		v.cols = cols
		v.vp.Width = float64(cols) * v.metrics.CellWidth
		b.width = &host.ViewportChanged{Old: old, New: v.vp}
	}
	if rows != v.rows {
		_, oldLast := v.visibleRange()
		v.rows = rows
		_, newLast := v.visibleRange()
		// Lines that scrolled out are dropped by the layer relayout.
		b.mergeLayout(host.LayoutChanged{
			NewOrReformatted:    v.formatted(oldLast, newLast),
			VerticalTranslation: true,
		})
	}
	v.scrollToCaret(&b)
	v.mu.Unlock()

	return v.flush(ctx, b)
}

// target resolves a motion to a position. Callers hold v.mu.
func (v *View) target(m Motion) host.Position {
	line, _ := v.lineIndex(v.caret)
	col := int(v.caret - v.starts[line])

	switch m {
	case MoveLeft:
		return v.clamp(v.caret - 1)
	case MoveRight:
		return v.clamp(v.caret + 1)
	case MoveUp:
		return v.verticalTarget(line, line-1)
	case MoveDown:
		return v.verticalTarget(line, line+1)
	case MovePageUp:
		return v.verticalTarget(line, line-v.rows)
	case MovePageDown:
		return v.verticalTarget(line, line+v.rows)
	case MoveLineStart:
		return v.starts[line]
	case MoveLineEnd:
		return v.position(line, len(v.lines[line]))
	case MoveBufferStart:
		return 0
	case MoveBufferEnd:
		return v.length()
	}
	return v.position(line, col)
}

// verticalTarget keeps the caret's display column when changing lines.
func (v *View) verticalTarget(from, to int) host.Position {
	to = max(0, min(to, len(v.lines)-1))
	col := v.visualColumn(v.caret)
	if to == from {
		return v.caret
	}
	return v.position(to, v.metrics.runeAt(v.lines[to], col))
}

// moveTo updates caret and selection. Callers hold v.mu.
func (v *View) moveTo(pos host.Position, extend bool) batch {
	oldCaret, oldSel := v.caret, v.sel
	v.caret = v.clamp(pos)
	if extend {
		v.sel = host.Selection{Start: v.sel.Start, End: v.caret}
	} else {
		v.sel = host.Selection{Start: v.caret, End: v.caret}
	}

	var b batch
	v.scrollToCaret(&b)
	v.caretEvents(&b, oldCaret, oldSel)
	return b
}

// scrollToCaret scrolls so the caret is visible. Callers hold v.mu.
func (v *View) scrollToCaret(b *batch) {
	line, _ := v.lineIndex(v.caret)
	switch {
	case line < v.topLine:
		v.scrollVertical(b, line)
	case line >= v.topLine+v.rows:
		v.scrollVertical(b, line-v.rows+1)
	}

	x := float64(v.visualColumn(v.caret)) * v.metrics.CellWidth
	switch {
	case x < v.vp.Left:
		v.scrollHorizontal(b, x)
	case x+v.metrics.CellWidth > v.vp.Right():
		v.scrollHorizontal(b, x+v.metrics.CellWidth-v.vp.Width)
	}
}

// scrollVertical moves the first visible line and records the lines that
// came into view. Callers hold v.mu.
func (v *View) scrollVertical(b *batch, top int) {
	top = max(0, min(top, len(v.lines)-1))
	if top == v.topLine {
		return
	}

	oldFirst, oldLast := v.visibleRange()
	v.topLine = top
	first, last := v.visibleRange()

	var fresh []host.Line
	for n := first; n < last; n++ {
		if n < oldFirst || n >= oldLast {
			fresh = append(fresh, v.lineGeometry(n))
		}
	}
	b.mergeLayout(host.LayoutChanged{NewOrReformatted: fresh, VerticalTranslation: true})
}

// scrollHorizontal moves the viewport's left edge. Callers hold v.mu.
func (v *View) scrollHorizontal(b *batch, left float64) {
	left = max(0, left)
	if left == v.vp.Left {
		return
	}
	old := v.vp
	v.vp.Left = left
	if b.left != nil {
		old = b.left.Old
	}
	b.left = &host.ViewportChanged{Old: old, New: v.vp}
}
