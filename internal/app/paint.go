package app

import (
	"github.com/dshills/linelight/internal/host"
	"github.com/dshills/linelight/internal/renderer/core"
	"github.com/dshills/linelight/internal/renderer/theme"
)

// statusHelp is shown on the status line when it fits.
const statusHelp = "F2 theme  F3 highlight  ^Q quit"

// render paints the whole screen: background, decoration layer, text with
// selection, caret and status line. Decorations are painted under the
// text so the band tints the cells the text is drawn on.
func (app *Application) render() {
	b := app.backend
	if b == nil {
		return
	}
	w, h := b.Size()
	if w <= 0 || h <= 0 {
		return
	}

	t := app.formats.Theme()
	base := core.Style{Foreground: t.Foreground, Background: t.Background}
	b.Fill(core.NewScreenRect(0, 0, h, w), core.NewStyledCell(' ', base))

	textRows := min(h-statusRows, app.view.Rows())
	if textRows > 0 {
		app.paintAdornments(core.NewScreenRect(0, 0, textRows, w))
		app.paintText(textRows, w)
		app.placeCaret(textRows, w)
	}
	if h > textRows {
		app.paintStatus(h-1, w, t)
	}
	b.Show()
}

// origin returns the view coordinates of the top left screen cell.
func (app *Application) origin() (x, y float64) {
	m := app.view.Metrics()
	return app.view.Viewport().Left, float64(app.view.TopLine()) * m.LineHeight
}

// paintAdornments blends every adornment of the decoration layer into the
// cells whose centers fall inside its shape.
func (app *Application) paintAdornments(area core.ScreenRect) {
	m := app.view.Metrics()
	ox, oy := app.origin()

	for _, a := range app.view.Layer().Adornments() {
		if a.Visual == nil {
			continue
		}
		r := a.Bounds.Offset(-ox, -oy).Cells(m.CellWidth, m.LineHeight).Intersection(area)
		shape := a.Visual.Geometry
		app.tint(r, a.Visual.Fill, func(x, y int) bool {
			cx := ox + (float64(x)+0.5)*m.CellWidth - a.Bounds.Left
			cy := oy + (float64(y)+0.5)*m.LineHeight - a.Bounds.Top
			return shape.Contains(cx, cy)
		})
	}
}

// tint composites brush over the background of every cell in r that
// inside accepts.
func (app *Application) tint(r core.ScreenRect, brush core.Brush, inside func(x, y int) bool) {
	if r.IsEmpty() || brush.IsTransparent() {
		return
	}
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			if !inside(x, y) {
				continue
			}
			cell := app.backend.GetCell(x, y)
			cell.Style.Background = brush.Over(cell.Style.Background)
			app.backend.SetCell(x, y, cell)
		}
	}
}

// paintText draws the visible lines, tinting selected characters.
func (app *Application) paintText(rows, width int) {
	m := app.view.Metrics()
	_, oy := app.origin()
	firstCol := int(app.view.Viewport().Left / m.CellWidth)

	sel := app.view.Selection().Span()
	selBrush, _ := app.formats.Brush(theme.CategorySelection)
	textBrush, ok := app.formats.Brush(theme.CategoryText)
	if !ok {
		textBrush = core.SolidBrush(app.formats.Theme().Foreground)
	}

	for _, line := range app.view.VisibleLines() {
		row := int((line.Top - oy) / m.LineHeight)
		if row < 0 || row >= rows {
			continue
		}
		app.paintLine(row, line, firstCol, width, sel, selBrush, textBrush.Color)
	}
}

// paintLine draws one line starting at visual column firstCol.
func (app *Application) paintLine(row int, line host.Line, firstCol, width int, sel host.Span, selBrush core.Brush, fg core.Color) {
	tabWidth := app.view.Metrics().TabWidth
	col := 0

	for i, r := range []rune(app.view.LineText(line.Number)) {
		w := core.RuneWidth(r)
		glyph := r
		switch {
		case r == '\t':
			w = tabWidth - col%tabWidth
			glyph = ' '
		case w == 0:
			w, glyph = 1, '?'
		}

		selected := sel.Contains(line.Span.Start + host.Position(i))
		for c := col; c < col+w; c++ {
			x := c - firstCol
			if x < 0 || x >= width {
				continue
			}
			// The second cell of a wide rune belongs to the glyph.
			if c > col && r != '\t' {
				continue
			}
			cell := app.backend.GetCell(x, row)
			bg := cell.Style.Background
			if selected {
				bg = selBrush.Over(bg)
			}
			ch := glyph
			if c > col {
				ch = ' '
			}
			app.backend.SetCell(x, row, core.NewStyledCell(ch, core.Style{Foreground: fg, Background: bg}))
		}
		col += w
		if col-firstCol >= width {
			return
		}
	}
}

// placeCaret shows the terminal cursor at the caret when it is on screen.
func (app *Application) placeCaret(rows, width int) {
	caret := app.view.Caret()
	line, _ := app.view.LineColumn(caret)
	row := line - app.view.TopLine()
	x := app.view.VisualColumn(caret) - int(app.view.Viewport().Left/app.view.Metrics().CellWidth)

	if row < 0 || row >= rows || x < 0 || x >= width {
		app.backend.HideCursor()
		return
	}
	app.backend.ShowCursor(x, row)
}

// paintStatus draws the status line on row y.
func (app *Application) paintStatus(y, width int, t *theme.Theme) {
	state := app.controller.State().String()
	if !app.controller.Enabled() {
		state = "off"
	}
	line, col := app.view.LineColumn(app.view.Caret())

	s := app.status
	s.SetTheme(t.Name)
	s.SetState(state)
	s.SetPosition(line+1, col+1)
	s.SetTotalLines(app.view.LineCount())
	s.Resize(width)
	s.Render(app.backend, y, core.Style{Foreground: t.Background, Background: t.Foreground})
}
