package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/host/memhost"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/key"
	"github.com/dshills/copyline/internal/input/keymap"
	"github.com/dshills/copyline/internal/renderer/backend"
)

// Run takes over the backend and processes events until app.quit succeeds
// or the backend closes. The backend is shut down before Run returns.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.render()
	for {
		ev := app.backend.PollEvent()
		switch ev.Type {
		case backend.EventKey:
			app.handleKey(ev.Key)
		case backend.EventResize:
			app.logger.Debug("resized to %dx%d", ev.Width, ev.Height)
		case backend.EventInterrupt:
			if _, ok := ev.Data.(reloadRequest); ok {
				if err := app.ReloadConfig(); err != nil {
					app.logger.Error("config reload: %v", err)
				}
			}
		case backend.EventClosed:
			app.logger.Info("backend closed")
			return nil
		default:
			continue
		}
		if app.quitting {
			app.logger.Info("quit")
			return nil
		}
		app.render()
	}
}

// HandleKey feeds one key event through the keymap as the event loop does.
func (app *Application) HandleKey(ev key.Event) {
	app.handleKey(ev)
}

// Quitting reports whether app.quit has succeeded.
func (app *Application) Quitting() bool {
	return app.quitting
}

func (app *Application) handleKey(ev key.Event) {
	view := app.doc.View
	app.noticeMark = len(view.Notices())

	prompt := view.ActivePrompt()
	ctx, source := keymap.ContextEditor, input.SourceKeyboard
	if prompt != nil {
		ctx, source = keymap.ContextPrompt, input.SourcePrompt
	}

	action, status, _ := app.resolver.Feed(ctx, ev)
	switch status {
	case keymap.StatusMatched:
		app.dispatch(action.WithSource(source))
	case keymap.StatusPending:
	case keymap.StatusUnbound:
		if prompt != nil {
			app.promptKey(prompt, ev)
			return
		}
		if ev.IsChar() {
			app.dispatch(input.Action{
				Name:   keymap.ActionInsert,
				Args:   input.ActionArgs{Text: string(ev.Rune)},
				Source: source,
			})
		}
	}
}

// promptKey edits the open prompt with a key no prompt binding claimed.
func (app *Application) promptKey(p *memhost.Prompt, ev key.Event) {
	var err error
	switch {
	case ev.Key == tcell.KeyEnter && ev.Mod == 0:
		err = p.Accept()
	case ev.Key == tcell.KeyEscape:
		err = p.Cancel()
	case ev.Key == tcell.KeyBackspace2:
		p.Backspace()
	case ev.IsChar():
		p.Type(string(ev.Rune))
	}
	if err != nil {
		app.logger.Warn("prompt: %v", err)
	}
}

func (app *Application) dispatch(action input.Action) handler.Result {
	return app.dispatcher.Dispatch(action)
}
