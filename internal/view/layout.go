package view

import (
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
)

// Metrics describes the monospace grid text is laid out on.
type Metrics struct {
	// CellWidth is the width of one terminal column in layout units.
	CellWidth float64

	// LineHeight is the height of one line in layout units.
	LineHeight float64

	// TabWidth is the number of columns between tab stops.
	TabWidth int
}

// DefaultMetrics returns one layout unit per cell, with 4-column tabs.
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 1, LineHeight: 1, TabWidth: 4}
}

func (m Metrics) normalized() Metrics {
	d := DefaultMetrics()
	if m.CellWidth <= 0 {
		m.CellWidth = d.CellWidth
	}
	if m.LineHeight <= 0 {
		m.LineHeight = d.LineHeight
	}
	if m.TabWidth < 1 {
		m.TabWidth = d.TabWidth
	}
	return m
}

// columns returns the visual column reached after the first n runes of
// text, expanding tabs and counting wide runes twice.
func (m Metrics) columns(text []rune, n int) int {
	col := 0
	for i, r := range text {
		if i >= n {
			break
		}
		if r == '\t' {
			col += m.TabWidth - col%m.TabWidth
			continue
		}
		col += core.RuneWidth(r)
	}
	return col
}

// runeAt returns the rune index whose cell covers visual column col,
// or len(text) when col is past the end of the line.
func (m Metrics) runeAt(text []rune, col int) int {
	c := 0
	for i, r := range text {
		var w int
		if r == '\t' {
			w = m.TabWidth - c%m.TabWidth
		} else {
			w = core.RuneWidth(r)
		}
		if c+w > col {
			return i
		}
		c += w
	}
	return len(text)
}

// lineGeometry lays out line n from its cached width. Callers hold v.mu.
func (v *View) lineGeometry(n int) host.Line {
	text := v.lines[n]
	breakLen := 1
	if n == len(v.lines)-1 {
		breakLen = 0
	}
	start := v.starts[n]
	top := float64(n) * v.metrics.LineHeight
	return host.Line{
		Span:     host.Span{Start: start, End: start + host.Position(len(text))},
		BreakLen: breakLen,
		Number:   n,
		Left:     0,
		Top:      top,
		Right:    float64(v.widths[n]) * v.metrics.CellWidth,
		Bottom:   top + v.metrics.LineHeight,
	}
}

// visibleRange returns the half-open range of formatted line numbers.
// Callers hold v.mu.
func (v *View) visibleRange() (first, last int) {
	return v.topLine, min(len(v.lines), v.topLine+v.rows)
}

// formatted returns the geometry of lines in [first, last). Callers hold
// v.mu.
func (v *View) formatted(first, last int) []host.Line {
	if first >= last {
		return nil
	}
	out := make([]host.Line, 0, last-first)
	for n := first; n < last; n++ {
		out = append(out, v.lineGeometry(n))
	}
	return out
}

// reindex recomputes line start positions. Callers hold v.mu.
func (v *View) reindex() {
	v.starts = v.starts[:0]
	pos := host.Position(0)
	for _, line := range v.lines {
		v.starts = append(v.starts, pos)
		pos += host.Position(len(line) + 1)
	}
}

// length returns the number of positions in the buffer. Callers hold v.mu.
func (v *View) length() host.Position {
	last := len(v.lines) - 1
	return v.starts[last] + host.Position(len(v.lines[last]))
}
