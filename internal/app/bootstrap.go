package app

import (
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/dshills/copyline/internal/config"
	"github.com/dshills/copyline/internal/config/watcher"
	"github.com/dshills/copyline/internal/copyline"
	"github.com/dshills/copyline/internal/copyline/marks"
	"github.com/dshills/copyline/internal/dispatcher"
	"github.com/dshills/copyline/internal/dispatcher/handlers/file"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input/keymap"
	"github.com/dshills/copyline/internal/logging"
	"github.com/dshills/copyline/internal/plugin"
	"github.com/dshills/copyline/internal/renderer"
	"github.com/dshills/copyline/internal/renderer/backend"
)

// pluginTimeout bounds a single Lua script run.
const pluginTimeout = 5 * time.Second

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := app.loadConfig()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	app.initLogger()
	app.service = copyline.NewService(app.serviceOptions(cfg))
	app.initDispatcher()

	if err := app.initKeymap(); err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	if err := app.initDocument(); err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.initPlugins()
	app.initWatcher()

	if err := app.initRenderer(); err != nil {
		return &InitError{Component: "renderer", Err: err}
	}

	app.logger.Info("started with %s", app.doc.Name())
	return nil
}

func (app *Application) configPath() string {
	if app.opts.ConfigPath != "" {
		return app.opts.ConfigPath
	}
	return config.DefaultPath()
}

func (app *Application) loadConfig() (config.Config, error) {
	var opts []config.Option
	if app.opts.ConfigFS != nil {
		opts = append(opts, config.WithFS(app.opts.ConfigFS))
	}
	switch {
	case app.opts.NoEnv:
		opts = append(opts, config.WithEnv(nil))
	case app.opts.Env != nil:
		opts = append(opts, config.WithEnv(app.opts.Env))
	}
	return config.Load(app.configPath(), opts...)
}

func (app *Application) logLevel(cfg config.Config) logging.Level {
	if app.opts.LogLevel != "" {
		return logging.ParseLevel(app.opts.LogLevel)
	}
	return logging.ParseLevel(cfg.Log.Level)
}

func (app *Application) initLogger() {
	out := app.opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	app.logger = logging.New(logging.Config{
		Level:  app.logLevel(app.cfg),
		Output: out,
		Prefix: "copyline",
	})
	if app.opts.LogOutput == nil {
		app.logger.Disable()
	}
}

func (app *Application) serviceOptions(cfg config.Config) copyline.Options {
	return copyline.Options{
		PromptLabel:       cfg.Prompt.Label,
		SharedPromptLabel: cfg.Prompt.SharedLabel,
		HistoryCapacity:   cfg.History.Capacity,
		Styles: marks.Styles{
			Collate: host.Style(cfg.Highlight.Collate),
			Copy:    host.Style(cfg.Highlight.Copy),
		},
		Logger: app.logger,
	}
}

func (app *Application) initDispatcher() {
	app.dispatcher = dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	app.dispatcher.SetLogger(app.logger)

	logHook := dispatcher.NewLoggingHook(app.logger)
	app.dispatcher.RegisterPreHook(logHook)
	app.dispatcher.RegisterPostHook(logHook)
	app.dispatcher.RegisterPostHook(dispatcher.NotifyHook{})
	app.dispatcher.RegisterPostHook(dispatcher.PostDispatchFunc(app.trackSaves))

	fm := app.opts.FileManager
	if fm == nil {
		fm = file.OSFileManager{}
	}
	app.files = file.NewHandlerWithManager(fm)
	app.registerHandlers()
}

func (app *Application) initKeymap() error {
	app.keymap = keymap.Default()

	path := app.opts.KeymapPath
	if path == "" {
		path = app.cfg.KeymapFile(app.configPath())
	}
	if path != "" {
		bs, err := keymap.LoadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			app.logger.Warn("keymap %s not found, using defaults", path)
		case err != nil:
			return err
		default:
			if err := app.keymap.AddAll(bs); err != nil {
				return err
			}
			app.logger.Info("loaded %d bindings from %s", len(bs), path)
		}
	}
	app.resolver = keymap.NewResolver(app.keymap)
	return nil
}

func (app *Application) initDocument() error {
	if app.opts.File == "" {
		app.doc = NewScratchDocument()
	} else {
		doc, err := OpenDocument(app.files.Manager(), app.opts.File)
		if err != nil {
			return err
		}
		app.doc = doc
		app.files.SetPath(doc.View.ID(), doc.Path)
	}
	app.dispatcher.SetView(app.doc.View)
	return nil
}

// initPlugins runs the configured init scripts. A failing script is
// reported and skipped; it does not stop startup.
func (app *Application) initPlugins() {
	app.plugins = plugin.NewHost(plugin.Options{Timeout: pluginTimeout, Logger: app.logger})
	if err := app.plugins.Register(plugin.NewCopylineModule(app.dispatcher, app.keymap, app.logger)); err != nil {
		app.logger.Error("registering copyline module: %v", err)
		return
	}
	if err := app.plugins.RunFiles(app.cfg.PluginPaths(app.configPath())); err != nil {
		app.logger.Error("plugins: %v", err)
		app.doc.View.Notify("plugins: " + err.Error())
	}
}

// initWatcher starts live reload of the config file. Failure leaves
// reload off.
func (app *Application) initWatcher() {
	path := app.configPath()
	if !app.cfg.Watch.Enabled || path == "" || app.opts.ConfigFS != nil {
		return
	}
	w, err := watcher.New(watcher.WithDebounce(app.cfg.Watch.Debounce), watcher.WithLogger(app.logger))
	if err != nil {
		app.logger.Warn("config watch disabled: %v", err)
		return
	}
	if err := w.Watch(path); err != nil {
		app.logger.Warn("config watch disabled: %v", err)
		w.Stop()
		return
	}
	w.OnChange(func(ev watcher.Event) {
		app.logger.Debug("config %s: %s", ev.Op, ev.Path)
		app.requestReload()
	})
	if err := w.Start(); err != nil {
		app.logger.Warn("config watch disabled: %v", err)
		return
	}
	app.watcher = w
}

func (app *Application) initRenderer() error {
	b := app.opts.Backend
	if b == nil {
		t, err := backend.NewTerminal()
		if err != nil {
			return err
		}
		b = t
	}
	app.backend = b
	app.renderer = renderer.New(b, renderer.WithLogger(app.logger))
	return nil
}

// requestReload hands a config change to the event loop, or reloads
// directly when the loop is not running.
func (app *Application) requestReload() {
	if app.running.Load() {
		if err := app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: reloadRequest{}}); err == nil {
			return
		}
	}
	if err := app.ReloadConfig(); err != nil {
		app.logger.Error("config reload: %v", err)
	}
}

type reloadRequest struct{}

// ReloadConfig re-reads the config file and applies the log level, prompt
// labels, history capacity and mark styles. The previous config stays
// active when the new one is invalid.
func (app *Application) ReloadConfig() error {
	cfg, err := app.loadConfig()
	if err != nil {
		app.doc.View.Notify("config: " + err.Error())
		return err
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.logger.SetLevel(app.logLevel(cfg))
	app.service.Configure(app.serviceOptions(cfg))
	app.doc.View.Notify("config reloaded")
	app.logger.Info("config reloaded")
	return nil
}
