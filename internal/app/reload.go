package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/linelight/internal/config"
	"github.com/dshills/linelight/internal/renderer/statusline"
	"github.com/dshills/linelight/internal/renderer/theme"
)

// reloadSignal wakes the event loop to drain pending reloads.
type reloadSignal struct{}

// enqueueReload runs on the watcher goroutine. The reload itself happens
// on the event loop since the view and controller are not shared.
func (app *Application) enqueueReload(path string) {
	app.mu.Lock()
	app.pending = append(app.pending, path)
	b := app.backend
	app.mu.Unlock()

	if b != nil && app.running.Load() {
		b.Interrupt(reloadSignal{})
	}
}

// processPending reloads every path queued by the watcher.
func (app *Application) processPending(ctx context.Context) error {
	app.mu.Lock()
	paths := app.pending
	app.pending = nil
	app.mu.Unlock()

	var errs []error
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		errs = append(errs, app.Reload(ctx, p))
	}
	return errors.Join(errs...)
}

// Reload re-reads a changed theme or config file and applies it. Failures
// keep the current settings and are shown on the status line.
func (app *Application) Reload(ctx context.Context, path string) error {
	err := app.reload(ctx, path)
	if err != nil {
		app.logger.Warn("%v", err)
		app.status.SetMessage(err.Error(), statusline.MessageError)
	}
	return err
}

func (app *Application) reload(ctx context.Context, path string) error {
	switch {
	case app.config.Theme.File != "" && samePath(path, app.config.Theme.File):
		return app.reloadTheme(ctx, path)
	case app.opts.ConfigPath != "" && samePath(path, app.opts.ConfigPath):
		return app.reloadConfig(ctx)
	}
	return nil
}

func (app *Application) reloadTheme(ctx context.Context, path string) error {
	t, err := theme.LoadFile(ctx, path)
	if err != nil {
		return NewOperationError("reload theme", path, err)
	}
	app.themes.Register(t)
	app.themes.SetCurrent(t.Name)
	app.logger.Info("reloaded theme %q from %s", t.Name, path)
	app.status.SetMessage(fmt.Sprintf("reloaded theme %q", t.Name), statusline.MessageInfo)
	return app.formats.SetTheme(ctx, t)
}

// reloadConfig applies the settings that can change at runtime: log level,
// highlight on/off and the theme name. Changes to view metrics or the
// highlight category need a restart.
func (app *Application) reloadConfig(ctx context.Context) error {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err == nil {
		err = cfg.ApplyEnv(app.lookupEnv())
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return NewOperationError("reload config", app.opts.ConfigPath, err)
	}

	if app.opts.Logger == nil {
		app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	if err := app.controller.SetEnabled(cfg.Highlight.Enabled); err != nil {
		return err
	}
	app.config.Highlight.Enabled = cfg.Highlight.Enabled

	if app.opts.Theme == "" && app.config.Theme.File == "" && cfg.Theme.Name != app.config.Theme.Name {
		app.config.Theme.Name = cfg.Theme.Name
		t, ok := app.themes.Get(cfg.Theme.Name)
		if !ok {
			app.logger.Warn("unknown theme %q", cfg.Theme.Name)
		} else {
			app.themes.SetCurrent(t.Name)
			if err := app.formats.SetTheme(ctx, t); err != nil {
				return err
			}
		}
	}
	app.logger.Info("reloaded config from %s", app.opts.ConfigPath)
	app.status.SetMessage("reloaded "+filepath.Base(app.opts.ConfigPath), statusline.MessageInfo)
	return nil
}

func (app *Application) lookupEnv() func(string) (string, bool) {
	if app.opts.LookupEnv != nil {
		return app.opts.LookupEnv
	}
	return os.LookupEnv
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
