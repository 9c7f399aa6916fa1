package app

import (
	"github.com/dshills/copyline/internal/dispatcher"
	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	copylinehandler "github.com/dshills/copyline/internal/dispatcher/handlers/copyline"
	"github.com/dshills/copyline/internal/dispatcher/handlers/cursor"
	"github.com/dshills/copyline/internal/dispatcher/handlers/editor"
	"github.com/dshills/copyline/internal/dispatcher/handlers/file"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/keymap"
)

// ArgForce makes app.quit discard unsaved changes.
const ArgForce = "force"

// registerHandlers registers every namespace handler and the app actions.
func (app *Application) registerHandlers() {
	app.dispatcher.RegisterNamespace(copylinehandler.NewHandler(app.service))
	app.dispatcher.RegisterNamespace(editor.NewHandler())
	app.dispatcher.RegisterNamespace(cursor.NewHandler())
	app.dispatcher.RegisterNamespace(app.files)

	app.dispatcher.RegisterHandlerFunc(keymap.ActionQuit, app.quit)
	app.dispatcher.RegisterPreHook(dispatcher.PreDispatchFunc(func(action *input.Action, _ *execctx.ExecutionContext) bool {
		if action.Name != keymap.ActionQuit {
			app.quitPending = false
		}
		return true
	}))
}

// quit asks the event loop to exit. With unsaved changes the first request
// is refused; a second one in a row, or one with ArgForce, exits anyway.
func (app *Application) quit(action input.Action, _ *execctx.ExecutionContext) handler.Result {
	if app.doc.IsModified() && !app.quitPending && !action.Args.GetBool(ArgForce) {
		app.quitPending = true
		return handler.Error(ErrUnsavedChanges)
	}
	app.quitting = true
	return handler.Success()
}

// trackSaves keeps the document's path and saved state in step with the
// file handler.
func (app *Application) trackSaves(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	switch action.Name {
	case file.ActionSave, file.ActionSaveAs, file.ActionReload:
	default:
		return
	}
	if result.Status != handler.StatusOK && result.Status != handler.StatusNoOp {
		return
	}
	if path := result.GetDataString(file.DataPath); path != "" {
		app.doc.Path = path
	}
	app.doc.MarkSaved()
}
