package app

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/linelight/internal/config"
	"github.com/dshills/linelight/internal/curline"
	"github.com/dshills/linelight/internal/event"
	"github.com/dshills/linelight/internal/renderer/backend"
	"github.com/dshills/linelight/internal/renderer/statusline"
	"github.com/dshills/linelight/internal/renderer/theme"
	"github.com/dshills/linelight/internal/view"
)

// statusRows is the number of screen rows below the text.
const statusRows = 1

// Application owns every component and runs the event loop. All component
// access happens on the goroutine running Run; background work is handed
// over through the backend's interrupt queue.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *Logger
	logFile *os.File

	eventBus   event.Bus
	themes     *theme.Registry
	formats    *theme.FormatMap
	view       *view.View
	controller *curline.Controller
	status     *statusline.StatusLine
	watcher    *config.Watcher
	backend    backend.Backend

	// pending holds paths reported by the watcher, drained on the event
	// loop.
	pending []string

	running atomic.Bool
	done    chan struct{}
	once    sync.Once
	cleanup sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. A missing file
	// yields the defaults.
	ConfigPath string

	// File is shown in the view. Text is used when File is empty.
	File string
	Text string

	// Theme overrides the configured theme. Names of registered themes
	// select them; anything else is loaded as a theme file.
	Theme string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Logger replaces the logger built from the configuration.
	Logger *Logger

	// LookupEnv finds environment overrides. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// NoWatch disables live reloading of the theme and config files.
	NoWatch bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		app.shutdown()
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.exit()

	// Shutdown already released everything if it saw Run as idle.
	select {
	case <-app.done:
		return nil
	default:
	}

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	ctx := context.Background()
	w, h := app.backend.Size()
	if err := app.resize(ctx, w, h); err != nil {
		app.logger.Warn("initial resize: %v", err)
	}
	app.render()

	return app.eventLoop(ctx)
}

// eventLoop handles backend events until quit.
func (app *Application) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-app.done:
			return nil
		default:
		}

		ev := app.backend.PollEvent()
		err := app.handleBackendEvent(ctx, ev)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			app.logger.Warn("handling event: %v", err)
			app.status.SetMessage(err.Error(), statusline.MessageError)
		}
		app.render()
	}
}

// Shutdown stops the event loop and releases resources. It is safe to call
// from any goroutine and more than once. While Run is active only the loop
// is woken; Run releases resources once the loop has returned.
func (app *Application) Shutdown() {
	app.once.Do(func() {
		close(app.done)
		app.mu.Lock()
		b := app.backend
		app.mu.Unlock()
		if b != nil && app.running.Load() {
			b.Interrupt(nil)
			return
		}
		app.shutdown()
	})
}

// exit runs when Run returns. Resources are released here if Shutdown
// was called while the loop was running.
func (app *Application) exit() {
	app.running.Store(false)
	select {
	case <-app.done:
		app.shutdown()
	default:
	}
}

// shutdown performs cleanup in reverse initialization order. Only the
// first call has any effect.
func (app *Application) shutdown() {
	app.cleanup.Do(app.release)
}

func (app *Application) release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing watcher: %v", err)
		}
	}
	if app.controller != nil {
		if err := app.controller.Close(); err != nil {
			app.logger.Warn("closing highlight: %v", err)
		}
	}
	if app.eventBus != nil && app.eventBus.IsRunning() {
		_ = app.eventBus.Stop(ctx)
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// EventBus returns the event bus.
func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

// View returns the text view.
func (app *Application) View() *view.View {
	return app.view
}

// Controller returns the current line highlight controller.
func (app *Application) Controller() *curline.Controller {
	return app.controller
}

// Formats returns the format map.
func (app *Application) Formats() *theme.FormatMap {
	return app.formats
}

// Themes returns the theme registry.
func (app *Application) Themes() *theme.Registry {
	return app.themes
}
