package app

import (
	"context"
	"errors"

	"github.com/dshills/linelight/internal/renderer/backend"
	"github.com/dshills/linelight/internal/view"
)

// scrollColumns is how many columns a horizontal scroll step moves.
const scrollColumns = 8

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.resize(ctx, ev.Width, ev.Height)
	case backend.EventKey:
		app.status.ClearMessage()
		return app.handleKeyEvent(ctx, ev)
	case backend.EventInterrupt:
		return app.processPending(ctx)
	default:
		return nil
	}
}

// resize fits the view to a screen of w by h cells, keeping the bottom
// rows for the status line. Configured view sizes win over the screen.
func (app *Application) resize(ctx context.Context, w, h int) error {
	vc := app.config.View
	if vc.Width > 0 && vc.Height > 0 {
		return nil
	}
	return app.view.Resize(ctx, max(1, w), max(1, h-statusRows))
}

// motionKeys maps navigation keys to caret motions.
var motionKeys = map[backend.Key]view.Motion{
	backend.KeyLeft:     view.MoveLeft,
	backend.KeyRight:    view.MoveRight,
	backend.KeyUp:       view.MoveUp,
	backend.KeyDown:     view.MoveDown,
	backend.KeyHome:     view.MoveLineStart,
	backend.KeyEnd:      view.MoveLineEnd,
	backend.KeyPageUp:   view.MovePageUp,
	backend.KeyPageDown: view.MovePageDown,
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlQ, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyF2, backend.KeyCtrlT:
		return app.NextTheme(ctx)
	case backend.KeyF3:
		return app.ToggleHighlight()
	case backend.KeyCtrlL:
		if app.backend != nil {
			app.backend.Clear()
		}
		return app.controller.Refresh()
	case backend.KeyEnter:
		return app.edit(app.view.Insert(ctx, "\n"))
	case backend.KeyTab:
		return app.edit(app.view.Insert(ctx, "\t"))
	case backend.KeyBackspace:
		return app.edit(app.view.DeleteBackward(ctx))
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModAlt) || ev.Mod.Has(backend.ModCtrl) {
			return nil
		}
		return app.edit(app.view.Insert(ctx, string(ev.Rune)))
	}

	if ev.Mod.Has(backend.ModAlt) {
		return app.scroll(ctx, ev.Key)
	}
	if ev.Mod.Has(backend.ModCtrl) {
		switch ev.Key {
		case backend.KeyHome:
			return app.view.Move(ctx, view.MoveBufferStart, ev.Mod.Has(backend.ModShift))
		case backend.KeyEnd:
			return app.view.Move(ctx, view.MoveBufferEnd, ev.Mod.Has(backend.ModShift))
		}
	}
	if m, ok := motionKeys[ev.Key]; ok {
		return app.view.Move(ctx, m, ev.Mod.Has(backend.ModShift))
	}
	return nil
}

// edit marks the text modified once an edit succeeds.
func (app *Application) edit(err error) error {
	if err == nil {
		app.status.SetModified(true)
	}
	return err
}

// scroll moves the viewport without moving the caret.
func (app *Application) scroll(ctx context.Context, k backend.Key) error {
	step := float64(scrollColumns) * app.view.Metrics().CellWidth
	left := app.view.Viewport().Left

	switch k {
	case backend.KeyLeft:
		return app.view.ScrollHorizontal(ctx, max(0, left-step))
	case backend.KeyRight:
		return app.view.ScrollHorizontal(ctx, left+step)
	case backend.KeyUp:
		return app.view.Scroll(ctx, -1)
	case backend.KeyDown:
		return app.view.Scroll(ctx, 1)
	}
	return nil
}

// NextTheme switches to the next registered theme.
func (app *Application) NextTheme(ctx context.Context) error {
	t := app.themes.Next()
	if t == nil {
		return errors.New("no themes registered")
	}
	app.logger.Debug("switching to theme %q", t.Name)
	return app.formats.SetTheme(ctx, t)
}

// ToggleHighlight shows or hides the current line highlight.
func (app *Application) ToggleHighlight() error {
	return app.controller.SetEnabled(!app.controller.Enabled())
}
