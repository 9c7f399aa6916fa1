// Package plugin runs user Lua scripts against the copyline commands.
//
// A Host owns one sandboxed lua.State. Modules registered with the host are
// available both as globals and through require. The copyline module
// exposes the four commands plus key binding and notification:
//
//	local copyline = require("copyline")
//	copyline.bind("ctrl+alt+c", "copyline.copyLine", { shared = true })
//	copyline.notify("init loaded")
//
// Commands run against the dispatcher's focused view.
package plugin
