package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/linelight/internal/config"
	"github.com/dshills/linelight/internal/curline"
	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/renderer/overlay"
	"github.com/dshills/linelight/internal/renderer/statusline"
	"github.com/dshills/linelight/internal/renderer/theme"
	"github.com/dshills/linelight/internal/view"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app  *Application
	opts Options
	ctx  context.Context
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, opts: app.opts, ctx: context.Background()}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"event bus", b.initEventBus},
		{"themes", b.initThemes},
		{"view", b.initView},
		{"highlight", b.initController},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return &InitError{Component: step.name, Err: err}
		}
	}
	b.app.logger.Info("started with theme %q", b.app.formats.Theme().Name)
	return nil
}

// initConfig loads the file, then the environment, then options.
func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return err
	}

	if err := cfg.ApplyEnv(b.app.lookupEnv()); err != nil {
		return err
	}

	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.Theme != "" {
		if isThemeFile(b.opts.Theme) {
			cfg.Theme.File = b.opts.Theme
		} else {
			cfg.Theme.Name = b.opts.Theme
			cfg.Theme.File = ""
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	b.app.config = cfg
	return nil
}

// isThemeFile reports whether s names a theme file rather than a theme.
func isThemeFile(s string) bool {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".toml", ".yaml", ".yml", ".lua":
		return true
	}
	return strings.ContainsRune(s, os.PathSeparator)
}

// initLogger logs to the configured file. The terminal belongs to the
// view, so without a file logs are discarded.
func (b *bootstrapper) initLogger() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}

	var out io.Writer = io.Discard
	if path := b.app.config.Log.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		b.app.logFile = f
		out = f
	}

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(b.app.config.Log.Level)
	cfg.Output = out
	b.app.logger = NewLogger(cfg)
	return nil
}

func (b *bootstrapper) initEventBus() error {
	b.app.eventBus = event.NewBus(event.WithLogger(b.app.logger.WithComponent("event").Zap()))
	return b.app.eventBus.Start()
}

// initThemes registers the built-in and directory themes, selects the
// configured one and builds the format map from it. A theme that cannot be
// found or loaded is logged and the default is kept.
func (b *bootstrapper) initThemes() error {
	cfg := b.app.config.Theme
	log := b.app.logger.WithComponent("theme")
	reg := theme.NewRegistry()

	if cfg.Dir != "" {
		if err := reg.LoadDir(b.ctx, cfg.Dir); err != nil {
			log.Warn("loading theme directory: %v", err)
		}
	}

	switch {
	case cfg.File != "":
		t, err := theme.LoadFile(b.ctx, cfg.File)
		if err != nil {
			log.Warn("%v", NewOperationError("load theme", cfg.File, err))
			break
		}
		reg.Register(t)
		reg.SetCurrent(t.Name)
	case cfg.Name != "":
		if !reg.SetCurrent(cfg.Name) {
			log.Warn("unknown theme %q, using %q", cfg.Name, reg.Current().Name)
		}
	}

	b.app.themes = reg
	b.app.formats = theme.NewFormatMap(reg.Current(), event.NewPublisher(b.app.eventBus, "theme"))
	return nil
}

func (b *bootstrapper) initView() error {
	text := b.opts.Text
	if b.opts.File != "" {
		data, err := os.ReadFile(b.opts.File)
		if err != nil {
			return NewOperationError("open", b.opts.File, err)
		}
		text = string(data)
	}

	vc := b.app.config.View
	opts := []view.Option{
		view.WithMetrics(view.Metrics{
			CellWidth:  vc.CellWidth,
			LineHeight: vc.LineHeight,
			TabWidth:   vc.TabWidth,
		}),
		view.WithPublisher(event.NewPublisher(b.app.eventBus, "view")),
		view.WithLogger(b.app.logger.WithComponent("view").Zap()),
	}
	if vc.Width > 0 && vc.Height > 0 {
		opts = append(opts, view.WithSize(vc.Width, vc.Height))
	}
	b.app.view = view.New(text, opts...)

	b.app.status = statusline.New()
	b.app.status.SetHelp(statusHelp)
	if b.opts.File != "" {
		b.app.status.SetFilename(filepath.Base(b.opts.File))
	}
	return nil
}

func (b *bootstrapper) initController() error {
	hc := b.app.config.Highlight
	layer := overlay.NewAdapter(b.app.view.Layer(), b.app.view.LineContaining)

	opts := []curline.Option{
		curline.WithLogger(b.app.logger.WithComponent("curline").Zap()),
		curline.WithCategory(hc.Category),
	}
	if !hc.Enabled {
		opts = append(opts, curline.WithDisabled())
	}

	c, err := curline.New(b.app.view, b.app.eventBus, layer, b.app.formats, opts...)
	if err != nil {
		return err
	}
	b.app.controller = c
	return c.Refresh()
}

// initWatcher watches the theme file and the config file for live reload.
func (b *bootstrapper) initWatcher() error {
	if b.opts.NoWatch {
		return nil
	}

	var paths []string
	if b.app.config.Theme.File != "" {
		paths = append(paths, b.app.config.Theme.File)
	}
	if b.opts.ConfigPath != "" {
		paths = append(paths, b.opts.ConfigPath)
	}
	if len(paths) == 0 {
		return nil
	}

	w, err := config.NewWatcher(b.app.enqueueReload,
		config.WithWatcherLogger(b.app.logger.WithComponent("watcher").Zap()))
	if err != nil {
		return err
	}
	b.app.watcher = w

	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			b.app.logger.Warn("not watching %s: %v", p, err)
		}
	}
	return nil
}
