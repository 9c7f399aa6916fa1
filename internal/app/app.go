// Package app wires the copy-line commands into a terminal editor: config,
// logging, the command service, the dispatcher, key bindings, Lua plugins,
// config live reload and the renderer.
package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/copyline/internal/config"
	"github.com/dshills/copyline/internal/config/loader"
	"github.com/dshills/copyline/internal/config/watcher"
	"github.com/dshills/copyline/internal/copyline"
	"github.com/dshills/copyline/internal/dispatcher"
	"github.com/dshills/copyline/internal/dispatcher/handlers/file"
	"github.com/dshills/copyline/internal/input/keymap"
	"github.com/dshills/copyline/internal/logging"
	"github.com/dshills/copyline/internal/plugin"
	"github.com/dshills/copyline/internal/renderer"
	"github.com/dshills/copyline/internal/renderer/backend"
)

// Application is the central coordinator for all components.
type Application struct {
	mu sync.Mutex

	opts   Options
	cfg    config.Config
	logger *logging.Logger

	service    *copyline.Service
	dispatcher *dispatcher.Dispatcher
	files      *file.Handler
	keymap     *keymap.Keymap
	resolver   *keymap.Resolver
	plugins    *plugin.Host
	watcher    *watcher.Watcher

	backend  backend.Backend
	renderer *renderer.Renderer

	doc *Document

	running atomic.Bool

	// quitPending is set by an app.quit refused for unsaved changes and
	// cleared by any other action.
	quitPending bool
	quitting    bool

	// noticeMark is the notice count at the last key press.
	noticeMark int
}

// Options configures the application.
type Options struct {
	// ConfigPath is the config file. Empty uses config.DefaultPath.
	ConfigPath string

	// File is opened on startup. Empty starts a scratch buffer.
	File string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// KeymapPath overrides the configured keymap file when set.
	KeymapPath string

	// LogOutput receives log lines. Nil discards them, since the terminal
	// is owned by the renderer.
	LogOutput io.Writer

	// Backend replaces the tcell terminal, e.g. with backend.Memory.
	Backend backend.Backend

	// FileManager replaces the local filesystem for documents.
	FileManager file.FileManager

	// ConfigFS and Env replace the config file system and environment.
	ConfigFS loader.FileSystem
	Env      loader.Loader
	NoEnv    bool
}

// New creates an Application and starts every component except the event
// loop. Close releases what New started.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg
}

// Document returns the open document.
func (app *Application) Document() *Document {
	return app.doc
}

// Dispatcher returns the action dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Keymap returns the live key bindings.
func (app *Application) Keymap() *keymap.Keymap {
	return app.keymap
}

// Service returns the copy-line command service.
func (app *Application) Service() *copyline.Service {
	return app.service
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Close stops the watcher and the Lua state and drops the document's marks
// and sessions. The terminal is restored by Run.
func (app *Application) Close() {
	if app.watcher != nil {
		app.watcher.Stop()
	}
	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			app.logger.Warn("closing plugins: %v", err)
		}
	}
	if app.service != nil && app.doc != nil {
		app.service.CloseView(app.doc.View.ID())
	}
	if app.dispatcher != nil {
		app.logStats()
	}
}

// logStats logs the dispatch counters gathered during the session.
func (app *Application) logStats() {
	m := app.dispatcher.Metrics()
	if m == nil {
		return
	}
	app.logger.Info("dispatched %d actions, %d errors, %d panics",
		m.TotalDispatches(), m.TotalErrors(), m.TotalPanics())
	for _, a := range m.TopActions(5) {
		app.logger.Debug("  %s: %d calls, avg %s", a.Name, a.DispatchCount, a.AverageDuration())
	}
}
