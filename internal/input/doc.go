// Package input defines the actions the copy and collate commands are
// invoked with.
//
// An Action names a command and carries its arguments. Key bindings, Lua
// scripts and the terminal front end all build Actions; the dispatcher routes
// them to handlers.
//
// # Commands
//
//	copyline.markCollate  {add: bool}
//	copyline.collate
//	copyline.markCopy     {add: bool}
//	copyline.copyLine     {command: "" | "up" | "down", shared: bool, prompt: bool}
//
// The copyLine command argument is a closed set, see CopyCommand.
package input
